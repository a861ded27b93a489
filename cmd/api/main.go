package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"filedrop/internal/adapters/auth"
	"filedrop/internal/adapters/eventbroker"
	natsbroker "filedrop/internal/adapters/eventbroker/nats"
	chirouter "filedrop/internal/adapters/handlers/http/chi"
	pipelinehandler "filedrop/internal/adapters/handlers/http/chi/v1/pipeline"
	"filedrop/internal/adapters/handlers/ws"
	"filedrop/internal/adapters/repository/memory"
	fsstorage "filedrop/internal/adapters/storage/fs"
	miniostorage "filedrop/internal/adapters/storage/minio"
	"filedrop/internal/config"
	"filedrop/internal/core/port"
	"filedrop/internal/core/service/pipeline"
	"filedrop/internal/core/service/process"
	"filedrop/internal/core/service/reaper"

	_ "github.com/joho/godotenv/autoload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//storage
	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init artifact storage", "error", err)
		os.Exit(1)
	}

	//events
	var events port.EventPublisher = eventbroker.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, pubErr := natsbroker.NewNATSPublisher(ctx, cfg.NATS, logger)
		if pubErr != nil {
			logger.Error("failed to init nats publisher", "error", pubErr)
			os.Exit(1)
		}
		defer publisher.Close()
		events = publisher
		logger.Info("nats publisher connected", "url", cfg.NATS.URL)
	}

	//core
	sessionStore := memory.NewSessionStore()
	scheduler := process.NewScheduler(sessionStore, storage, events, logger)
	pipelineService := pipeline.NewPipelineService(sessionStore, scheduler, storage, cfg.Upload, logger)
	reaperService := reaper.NewReaperService(sessionStore, storage, events, cfg.Upload, logger)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	//http
	pipelineHandler := pipelinehandler.NewPipelineHandlerV1(pipelineService, verifier, cfg.Upload.MaxUploadSize, logger)
	wsHandler := ws.NewHandler(pipelineService, verifier, logger)

	router := chirouter.NewRouter(logger, pipelineHandler, wsHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init reaper task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initReaperTask(ctx, reaperService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ArtifactStorage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return miniostorage.NewAdapter(ctx, cfg.Minio, logger)
	case "fs":
		return fsstorage.NewAdapter(cfg.Storage.ArtifactDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func initReaperTask(ctx context.Context, service port.ReaperService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("reaper task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			if err := service.Sweep(ctx, time.Now()); err != nil {
				logger.Error("failed to sweep inactive sessions", "error", err)
			}
		case <-ctx.Done():
			logger.Info("reaper task stopped")
			return
		}
	}

}
