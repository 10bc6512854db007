package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"extractd/internal/config"
	"extractd/internal/extractor"
	"extractd/internal/extractor/pattern"
	"extractd/internal/handler"
	"extractd/internal/port"
	"extractd/internal/queue"
	"extractd/internal/repository/sqlstore"
	"extractd/internal/router"
	"extractd/internal/service"

	// Register the semantic extractor providers.
	_ "extractd/internal/extractor/ollama"
	_ "extractd/internal/extractor/openai"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DB.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.Driver == "sqlite" {
		if err := sqlstore.EnsureSchema(context.Background(), db); err != nil {
			return err
		}
	}

	repo := sqlstore.NewRequestRepo(db)
	taskQueue := queue.NewMemory(cfg.Queue.Capacity)

	ext, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return err
	}

	extractionSvc := service.NewExtractionService(repo, taskQueue, cfg.Status)
	worker := service.NewExtractWorker(repo, taskQueue, ext, service.ExtractWorkerConfig{
		MaxRetries:     cfg.Worker.MaxRetries,
		AttemptTimeout: cfg.Worker.AttemptTimeout(),
		Concurrency:    cfg.Queue.Concurrency,
	})

	extractionH := handler.NewExtractionHandler(extractionSvc, repo)
	healthH := handler.NewHealthHandler(db)
	r := router.Setup(extractionH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(workerDone)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server starting on %s (backend=%s, driver=%s)", cfg.Server.Port, cfg.Extractor.Backend, cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	return nil
}

// buildExtractor assembles the effective extractor for the configured
// backend: the deterministic baseline alone, or the semantic provider merged
// field-by-field with it.
func buildExtractor(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
	baseline := pattern.New()
	switch cfg.Backend {
	case "", "pattern":
		return baseline, nil
	case "merged":
		semantic, err := extractor.NewProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("building semantic extractor: %w", err)
		}
		return extractor.NewMergeExtractor(semantic, baseline), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend: %s", cfg.Backend)
	}
}
