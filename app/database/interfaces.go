package database

import (
	"time"
)

type SourceRepository interface {
	GetSource(sourceName string) (*Source, error)
	GetSourceCount() (int, error)

	UpsertSource(sourceName, url, feedURL string) error
	UpdateSourceCollected(sourceName string, title string, nextCollect time.Time) error
}

type LinkRepository interface {
	StoreLink(sourceName, title, url string) (bool, error)

	GetPendingDownload(sourceName string, limit int) ([]Link, error)
	GetPendingExtraction(sourceName string, limit int) ([]Link, error)
	GetLinkCount(sourceName string) (int, error)

	MarkDownloaded(linkID int64, htmlPath string) error
	MarkExtracted(linkID int64, status string, strategy string, contentLength int, errorMsg string) error

	GetStats() (Stats, error)
	GetSourceStats(sourceName string) (Stats, error)
}

type ProgressRepository interface {
	GetProgress(sourceName string) (*Progress, error)
	UpdateProgress(sourceName string, lastPage, linksCollected int) error
}
