package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/extractor"
	"github.com/anudeepadi/seekingalpha/app/source"
)

type ExtractTranscriptsTask struct {
	Task
	SourceConfig *source.Config
	extractor    *extractor.Extractor
	salvage      *extractor.SalvageExtractor
	linkRepo     database.LinkRepository
	outputDir    string
}

func NewExtractTranscriptsTask(sourceName string, sourceConfig *source.Config,
	transcriptExtractor *extractor.Extractor, salvage *extractor.SalvageExtractor,
	linkRepo database.LinkRepository, outputDir string) *ExtractTranscriptsTask {
	return &ExtractTranscriptsTask{
		Task:         NewTask(TaskTypeExtractTranscripts, sourceName),
		SourceConfig: sourceConfig,
		extractor:    transcriptExtractor,
		salvage:      salvage,
		linkRepo:     linkRepo,
		outputDir:    outputDir,
	}
}

func (t *ExtractTranscriptsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	links, err := t.linkRepo.GetPendingExtraction(t.SourceName, t.SourceConfig.Settings.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get links pending extraction: %w", err)
	}

	if len(links) == 0 {
		slog.Debug("No links pending extraction", "source", t.SourceName)
		return nil
	}

	if err := os.MkdirAll(t.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	successCount := 0
	errorCount := 0

	for _, link := range links {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractSingleTranscript(link); err != nil {
			slog.Error("Failed to extract transcript", "link_id", link.ID, "url", link.URL, "error", err)
			errorCount++

			if markErr := t.linkRepo.MarkExtracted(link.ID, "error", "", 0, err.Error()); markErr != nil {
				slog.Error("Failed to update extraction status", "link_id", link.ID, "error", markErr)
			}
		} else {
			successCount++
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
		"extracted_total", stats.ExtractedLinks,
		"downloaded_total", stats.DownloadedLinks)

	return nil
}

func (t *ExtractTranscriptsTask) extractSingleTranscript(link database.Link) error {
	htmlPath := link.HTMLPath
	if htmlPath == "" {
		return fmt.Errorf("link has no HTML path")
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}

	result, stats := t.extractor.Run(extractor.Document{
		HTML:  string(data),
		URL:   link.URL,
		Title: link.Title,
	})

	status := "success"
	errorMsg := ""

	if result.Content == extractor.ContentExtractionFailed {
		status = "failed"
		errorMsg = "no extraction strategy matched"

		if t.SourceConfig.Settings.SalvageFailed {
			salvaged, salvageErr := t.salvage.Run(data)
			if salvageErr != nil {
				slog.Debug("Salvage extraction failed", "link_id", link.ID, "error", salvageErr)
			} else {
				result.Content = salvaged
				status = "salvaged"
				errorMsg = ""
				stats.Strategy = extractor.StrategySalvage
				stats.ContentLength = len(salvaged)
			}
		}
	}

	// Flag output that is probably just the paywall teaser.
	if len(result.Content) < 500 ||
		(strings.Contains(result.Content, "Make the most of Premium") && len(result.Content) < 1000) {
		slog.Warn("Content may be incomplete", "link_id", link.ID, "url", link.URL,
			"content_length", len(result.Content))
	}

	title := link.Title
	if title == "" {
		title = result.Title
	}

	record := extractor.Record{
		Title:   title,
		URL:     link.URL,
		Date:    result.Date,
		Author:  result.Author,
		Content: result.Content,
	}

	if err := t.writeRecord(record, link.Title); err != nil {
		return err
	}

	if err := t.linkRepo.MarkExtracted(link.ID, status, stats.Strategy, stats.ContentLength, errorMsg); err != nil {
		return fmt.Errorf("failed to update extraction status: %w", err)
	}

	slog.Debug("Transcript extracted", "link_id", link.ID, "strategy", stats.Strategy,
		"content_length", stats.ContentLength, "status", status)

	return nil
}

func (t *ExtractTranscriptsTask) writeRecord(record extractor.Record, linkTitle string) error {
	filename := safeFilename(linkTitle) + ".json"
	path := filepath.Join(t.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to write JSON record: %w", err)
	}

	return nil
}
