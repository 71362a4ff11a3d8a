package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anudeepadi/seekingalpha/app/cfg"
	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/extractor"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
	"github.com/anudeepadi/seekingalpha/app/tasks"
)

func NewHandler(configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	linkRepo database.LinkRepository, progressRepo database.ProgressRepository,
	client *scraper.Client, transcriptExtractor *extractor.Extractor,
	salvage *extractor.SalvageExtractor, scheduler tasks.TaskSchedulerInterface) *Handler {
	cfg := cfg.Get()

	return &Handler{
		sourceRepo:   sourceRepo,
		linkRepo:     linkRepo,
		progressRepo: progressRepo,
		configCache:  configCache,
		client:       client,
		linkParser:   scraper.NewLinkParser(),
		feedParser:   scraper.NewFeedParser(),
		extractor:    transcriptExtractor,
		salvage:      salvage,
		scheduler:    scheduler,
		htmlDir:      cfg.HTMLDir,
		outputDir:    cfg.OutputDir,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.linkRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": gin.H{
			"total":      stats.TotalLinks,
			"downloaded": stats.DownloadedLinks,
			"extracted":  stats.ExtractedLinks,
		},
		"sources": h.configCache.GetConfigCount(),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"name":             sourceConfig.Name,
			"url":              sourceConfig.URL,
			"title":            "",
			"enabled":          sourceConfig.Settings.Enabled,
			"max_links":        sourceConfig.Settings.MaxLinks,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		}

		if src, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && src != nil {
			sourceInfo["title"] = src.Title
			sourceInfo["last_collected_at"] = src.LastCollectedAt
			sourceInfo["next_collect_at"] = src.NextCollectAt
			sourceInfo["updated_at"] = src.UpdatedAt
		}

		if linkCount, err := h.linkRepo.GetLinkCount(sourceConfig.Name); err == nil {
			sourceInfo["link_count"] = linkCount
		}

		sources = append(sources, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIGetSourceDetails(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	src, err := h.sourceRepo.GetSource(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if src == nil {
		slog.Error("Source not found in database", "source", name)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found in database"})
		return
	}

	details := map[string]interface{}{
		"name":             name,
		"url":              sourceConfig.URL,
		"feed_url":         sourceConfig.FeedURL,
		"title":            src.Title,
		"enabled":          sourceConfig.Settings.Enabled,
		"max_links":        sourceConfig.Settings.MaxLinks,
		"batch_size":       sourceConfig.Settings.BatchSize,
		"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		"timeout":          (time.Duration(sourceConfig.Settings.Timeout) * time.Second).String(),
		"salvage_failed":   sourceConfig.Settings.SalvageFailed,
	}

	details["database"] = map[string]interface{}{
		"name":              src.Name,
		"last_collected_at": src.LastCollectedAt,
		"next_collect_at":   src.NextCollectAt,
		"created_at":        src.CreatedAt,
		"updated_at":        src.UpdatedAt,
	}

	if progress, err := h.progressRepo.GetProgress(name); err == nil {
		details["progress"] = map[string]interface{}{
			"last_page_processed": progress.LastPageProcessed,
			"links_collected":     progress.LinksCollected,
			"last_updated":        progress.LastUpdated,
		}
	}

	if stats, err := h.linkRepo.GetSourceStats(name); err == nil {
		details["links"] = map[string]interface{}{
			"total":      stats.TotalLinks,
			"downloaded": stats.DownloadedLinks,
			"extracted":  stats.ExtractedLinks,
		}
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APICollectSource(c *gin.Context) {
	name, sourceConfig, ok := h.resolveSource(c)
	if !ok {
		return
	}

	task := tasks.NewCollectLinksTask(name, sourceConfig, h.client, h.linkParser, h.feedParser,
		h.sourceRepo, h.linkRepo, h.progressRepo)
	h.enqueueAndRespond(c, name, task)
}

func (h *Handler) APIDownloadSource(c *gin.Context) {
	name, sourceConfig, ok := h.resolveSource(c)
	if !ok {
		return
	}

	task := tasks.NewDownloadContentTask(name, sourceConfig, h.client, h.linkRepo, h.htmlDir)
	h.enqueueAndRespond(c, name, task)
}

func (h *Handler) APIExtractSource(c *gin.Context) {
	name, sourceConfig, ok := h.resolveSource(c)
	if !ok {
		return
	}

	task := tasks.NewExtractTranscriptsTask(name, sourceConfig, h.extractor, h.salvage,
		h.linkRepo, h.outputDir)
	h.enqueueAndRespond(c, name, task)
}

func (h *Handler) resolveSource(c *gin.Context) (string, *source.Config, bool) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return "", nil, false
	}

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return "", nil, false
	}

	return name, sourceConfig, true
}

func (h *Handler) enqueueAndRespond(c *gin.Context, name string, task tasks.TaskInterface) {
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing task", "type", string(task.GetType()), "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task enqueued successfully",
		"task": gin.H{
			"id":     task.GetID(),
			"type":   task.GetType(),
			"source": name,
		},
	})
}
