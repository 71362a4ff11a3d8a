package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/source"
)

type SyncSourceConfigTask struct {
	Task
	SourceConfig *source.Config
	sourceRepo   database.SourceRepository
}

func NewSyncSourceConfigTask(sourceName string, sourceConfig *source.Config, sourceRepo database.SourceRepository) *SyncSourceConfigTask {
	return &SyncSourceConfigTask{
		Task:         NewTask(TaskTypeSyncSourceConfig, sourceName),
		SourceConfig: sourceConfig,
		sourceRepo:   sourceRepo,
	}
}

func (t *SyncSourceConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.sourceRepo.UpsertSource(t.SourceName, t.SourceConfig.URL, t.SourceConfig.FeedURL)
	if err != nil {
		return fmt.Errorf("failed to sync source configuration: %w", err)
	}

	slog.Debug("Source configuration synced", "source", t.SourceName, "url", t.SourceConfig.URL)

	return nil
}
