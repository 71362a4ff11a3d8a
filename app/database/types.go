package database

import (
	"time"
)

type Source struct {
	Name            string // Configuration source identifier derived from filename
	URL             string // Author page URL from configuration
	FeedURL         string // Optional author RSS feed URL from configuration
	Title           string // Author display name once known
	LastCollectedAt *time.Time
	NextCollectAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Link struct {
	ID                 int64
	SourceName         string
	Title              string
	URL                string
	CollectedAt        time.Time
	Downloaded         bool
	DownloadedAt       *time.Time
	HTMLPath           string
	Extracted          bool
	ExtractedAt        *time.Time
	ExtractionStatus   string // pending, success, salvaged, failed, error
	ExtractionError    string
	ExtractionAttempts int
	ContentLength      int
	Strategy           string
}

type Progress struct {
	SourceName        string
	LastPageProcessed int
	LinksCollected    int
	LastUpdated       time.Time
}

// Stats is the pipeline-wide progress summary reported by /stats and logged
// after each batch.
type Stats struct {
	TotalLinks      int
	DownloadedLinks int
	ExtractedLinks  int
}
