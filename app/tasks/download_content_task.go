package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
)

type DownloadContentTask struct {
	Task
	SourceConfig *source.Config
	client       *scraper.Client
	linkRepo     database.LinkRepository
	htmlDir      string
}

func NewDownloadContentTask(sourceName string, sourceConfig *source.Config, client *scraper.Client,
	linkRepo database.LinkRepository, htmlDir string) *DownloadContentTask {
	return &DownloadContentTask{
		Task:         NewTask(TaskTypeDownloadContent, sourceName),
		SourceConfig: sourceConfig,
		client:       client,
		linkRepo:     linkRepo,
		htmlDir:      htmlDir,
	}
}

func (t *DownloadContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	links, err := t.linkRepo.GetPendingDownload(t.SourceName, t.SourceConfig.Settings.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get links pending download: %w", err)
	}

	if len(links) == 0 {
		slog.Debug("No links pending download", "source", t.SourceName)
		return nil
	}

	if err := os.MkdirAll(t.htmlDir, 0755); err != nil {
		return fmt.Errorf("failed to create HTML directory: %w", err)
	}

	successCount := 0
	errorCount := 0
	loginChecked := false

	for _, link := range links {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		saved, data, err := t.downloadSingleArticle(ctx, link)
		if err != nil {
			slog.Error("Failed to download article", "link_id", link.ID, "url", link.URL, "error", err)
			errorCount++
			continue
		}
		successCount++

		if saved && !loginChecked {
			loginChecked = true
			if !scraper.IsLoggedIn(data) {
				slog.Warn("Session appears unauthenticated, paywalled content may be truncated",
					"source", t.SourceName)
			}
		}

		if saved {
			if err := t.client.Delay(ctx, t.SourceConfig.Settings.MinDelay, t.SourceConfig.Settings.MaxDelay); err != nil {
				return err
			}
		}
	}

	stats, err := t.linkRepo.GetStats()
	if err != nil {
		slog.Error("Failed to get pipeline stats", "error", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount,
		"downloaded_total", stats.DownloadedLinks,
		"links_total", stats.TotalLinks)

	return nil
}

// downloadSingleArticle fetches one article and writes its HTML to disk.
// Returns whether a network fetch actually happened (false when the file was
// already present) along with the page body.
func (t *DownloadContentTask) downloadSingleArticle(ctx context.Context, link database.Link) (bool, []byte, error) {
	filename := safeFilename(link.Title) + ".html"
	path := filepath.Join(t.htmlDir, filename)

	if _, err := os.Stat(path); err == nil {
		slog.Debug("File already exists", "link_id", link.ID, "file", filename)
		if err := t.linkRepo.MarkDownloaded(link.ID, path); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
	data, err := t.client.FetchHTML(ctx, link.URL, timeout)
	if err != nil {
		return false, nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, nil, fmt.Errorf("failed to write HTML file: %w", err)
	}

	if err := t.linkRepo.MarkDownloaded(link.ID, path); err != nil {
		return false, nil, err
	}

	slog.Debug("Saved article HTML", "link_id", link.ID, "file", filename, "bytes", len(data))
	return true, data, nil
}

// safeFilename maps every non-alphanumeric rune to an underscore and caps the
// result at 50 runes, keeping filenames stable across collection runs.
func safeFilename(title string) string {
	runes := []rune(title)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			runes[i] = '_'
		}
	}
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}
