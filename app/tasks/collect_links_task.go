package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
)

type CollectLinksTask struct {
	Task
	SourceConfig *source.Config
	client       *scraper.Client
	linkParser   *scraper.LinkParser
	feedParser   *scraper.FeedParser
	sourceRepo   database.SourceRepository
	linkRepo     database.LinkRepository
	progressRepo database.ProgressRepository
}

func NewCollectLinksTask(sourceName string, sourceConfig *source.Config, client *scraper.Client,
	linkParser *scraper.LinkParser, feedParser *scraper.FeedParser, sourceRepo database.SourceRepository,
	linkRepo database.LinkRepository, progressRepo database.ProgressRepository) *CollectLinksTask {
	return &CollectLinksTask{
		Task:         NewTask(TaskTypeCollectLinks, sourceName),
		SourceConfig: sourceConfig,
		client:       client,
		linkParser:   linkParser,
		feedParser:   feedParser,
		sourceRepo:   sourceRepo,
		linkRepo:     linkRepo,
		progressRepo: progressRepo,
	}
}

func (t *CollectLinksTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	var title string
	var newCount int
	var err error

	if t.SourceConfig.FeedURL != "" {
		title, newCount, err = t.collectFromFeed(ctx)
	} else {
		newCount, err = t.collectFromPages(ctx)
	}
	if err != nil {
		return err
	}

	nextCollect := time.Now().UTC().Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateSourceCollected(t.SourceName, title, nextCollect); err != nil {
		return fmt.Errorf("failed to update source collection state: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"new_links", newCount)

	return nil
}

// collectFromFeed pulls the author RSS feed once; feeds are not paginated.
func (t *CollectLinksTask) collectFromFeed(ctx context.Context) (string, int, error) {
	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second

	data, err := t.client.FetchFeed(ctx, t.SourceConfig.FeedURL, timeout)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch author feed: %w", err)
	}

	links, title, err := t.feedParser.Run(data)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse author feed: %w", err)
	}

	newCount := 0
	for _, link := range links {
		stored, err := t.linkRepo.StoreLink(t.SourceName, link.Title, link.URL)
		if err != nil {
			return "", 0, fmt.Errorf("failed to store link: %w", err)
		}
		if stored {
			newCount++
			slog.Debug("Stored link", "source", t.SourceName, "title", link.Title)
		}
	}

	return title, newCount, nil
}

// collectFromPages walks the author page starting after the last processed
// page, storing new links until an empty page, the max-links cap, or
// cancellation. Progress is persisted after every page so an interrupted run
// resumes where it stopped.
func (t *CollectLinksTask) collectFromPages(ctx context.Context) (int, error) {
	progress, err := t.progressRepo.GetProgress(t.SourceName)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection progress: %w", err)
	}

	page := progress.LastPageProcessed + 1
	linksCollected := progress.LinksCollected
	maxLinks := t.SourceConfig.Settings.MaxLinks
	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
	newCount := 0

	slog.Debug("Starting link collection", "source", t.SourceName,
		"page", page, "links_collected", linksCollected)

	for {
		select {
		case <-ctx.Done():
			return newCount, ctx.Err()
		default:
		}

		if maxLinks > 0 && linksCollected >= maxLinks {
			slog.Info("Reached link collection target", "source", t.SourceName, "max_links", maxLinks)
			break
		}

		pageURL := scraper.PageURL(t.SourceConfig.URL, page)

		data, err := t.client.FetchHTML(ctx, pageURL, timeout)
		if err != nil {
			return newCount, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		links, selector, err := t.linkParser.Run(data)
		if err != nil {
			return newCount, fmt.Errorf("failed to parse page %d: %w", page, err)
		}

		if len(links) == 0 {
			if scraper.EndOfResults(data) {
				slog.Info("Reached the end of available articles", "source", t.SourceName, "page", page)
			} else {
				slog.Warn("No links found but no end-of-results detected", "source", t.SourceName, "page", page)
			}
			break
		}

		slog.Debug("Found articles", "source", t.SourceName, "page", page,
			"count", len(links), "selector", selector)

		for _, link := range links {
			stored, err := t.linkRepo.StoreLink(t.SourceName, link.Title, link.URL)
			if err != nil {
				return newCount, fmt.Errorf("failed to store link: %w", err)
			}
			if stored {
				newCount++
				linksCollected++
				slog.Debug("Stored link", "source", t.SourceName, "title", link.Title)
			}
		}

		if err := t.progressRepo.UpdateProgress(t.SourceName, page, linksCollected); err != nil {
			return newCount, fmt.Errorf("failed to update progress: %w", err)
		}

		page++

		if err := t.client.Delay(ctx, t.SourceConfig.Settings.MinDelay, t.SourceConfig.Settings.MaxDelay); err != nil {
			return newCount, err
		}
	}

	return newCount, nil
}
