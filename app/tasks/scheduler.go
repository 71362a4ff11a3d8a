package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anudeepadi/seekingalpha/app/cfg"
	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/extractor"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceRepo   database.SourceRepository
	linkRepo     database.LinkRepository
	progressRepo database.ProgressRepository
	configCache  *source.ConfigCache
	client       *scraper.Client
	linkParser   *scraper.LinkParser
	feedParser   *scraper.FeedParser
	extractor    *extractor.Extractor
	salvage      *extractor.SalvageExtractor
	htmlDir      string
	outputDir    string
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

func NewScheduler(configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	linkRepo database.LinkRepository, progressRepo database.ProgressRepository,
	client *scraper.Client, transcriptExtractor *extractor.Extractor,
	salvage *extractor.SalvageExtractor) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceRepo:   sourceRepo,
		linkRepo:     linkRepo,
		progressRepo: progressRepo,
		configCache:  configCache,
		client:       client,
		linkParser:   scraper.NewLinkParser(),
		feedParser:   scraper.NewFeedParser(),
		extractor:    transcriptExtractor,
		salvage:      salvage,
		htmlDir:      cfg.HTMLDir,
		outputDir:    cfg.OutputDir,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) newCollectTask(sourceName string, sourceConfig *source.Config) TaskInterface {
	return NewCollectLinksTask(sourceName, sourceConfig, s.client, s.linkParser, s.feedParser,
		s.sourceRepo, s.linkRepo, s.progressRepo)
}

func (s *Scheduler) newDownloadTask(sourceName string, sourceConfig *source.Config) TaskInterface {
	return NewDownloadContentTask(sourceName, sourceConfig, s.client, s.linkRepo, s.htmlDir)
}

func (s *Scheduler) newExtractTask(sourceName string, sourceConfig *source.Config) TaskInterface {
	return NewExtractTranscriptsTask(sourceName, sourceConfig, s.extractor, s.salvage,
		s.linkRepo, s.outputDir)
}

func (s *Scheduler) enqueueStartupTasks() {
	sourceConfigs := s.configCache.GetConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		syncTask := NewSyncSourceConfigTask(sourceConfig.Name, sourceConfig, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceConfigTask", "source", sourceConfig.Name, "error", err)
			continue
		}

		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping pipeline tasks", "source", sourceConfig.Name)
			continue
		}

		if err := s.EnqueueTask(s.newCollectTask(sourceConfig.Name, sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue CollectLinksTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	for _, sourceConfig := range sourceConfigs {
		src, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}
		if src == nil {
			slog.Warn("Source not found in database, skipping", "source", sourceConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if src.NextCollectAt != nil && src.NextCollectAt.After(now) {
			slog.Debug("Source not due for collection yet", "source", sourceConfig.Name,
				"next_collect_at", src.NextCollectAt)
		} else {
			if err := s.EnqueueTask(s.newCollectTask(sourceConfig.Name, sourceConfig)); err != nil {
				slog.Warn("Failed to enqueue CollectLinksTask", "source", sourceConfig.Name, "error", err)
			}
		}

		if err := s.EnqueueTask(s.newDownloadTask(sourceConfig.Name, sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue DownloadContentTask", "source", sourceConfig.Name, "error", err)
		}

		if err := s.EnqueueTask(s.newExtractTask(sourceConfig.Name, sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue ExtractTranscriptsTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 15*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
