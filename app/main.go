package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anudeepadi/seekingalpha/app/api"
	"github.com/anudeepadi/seekingalpha/app/cfg"
	"github.com/anudeepadi/seekingalpha/app/database"
	"github.com/anudeepadi/seekingalpha/app/extractor"
	"github.com/anudeepadi/seekingalpha/app/scraper"
	"github.com/anudeepadi/seekingalpha/app/source"
	"github.com/anudeepadi/seekingalpha/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	sourceRepo := database.NewSourceRepository(db)
	linkRepo := database.NewLinkRepository(db)
	progressRepo := database.NewProgressRepository(db)

	client, err := scraper.NewClient(appCfg.UserAgent, appCfg.CookiesFile)
	if err != nil {
		slog.Error("Failed to initialize HTTP client", "error", err)
		os.Exit(1)
	}
	if count, err := client.LoadCookies(); err != nil {
		slog.Warn("Failed to load session cookies, continuing unauthenticated", "file", appCfg.CookiesFile, "error", err)
	} else {
		slog.Info("Session cookies loaded", "count", count)
	}

	transcriptExtractor := extractor.NewExtractor()
	salvage := extractor.NewSalvageExtractor()

	scheduler := tasks.NewScheduler(configCache, sourceRepo, linkRepo, progressRepo,
		client, transcriptExtractor, salvage)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount,
		"interval", (time.Duration(appCfg.SchedulerInterval) * time.Second).String())

	apiHandler := api.NewHandler(configCache, sourceRepo, linkRepo, progressRepo,
		client, transcriptExtractor, salvage, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := client.SaveCookies(); err != nil {
		slog.Warn("Failed to persist session cookies", "error", err)
	}

	slog.Info("Shutdown complete")
}
