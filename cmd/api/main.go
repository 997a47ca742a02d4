package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"upload-gate/internal/adapters/eventbroker/nats"
	chirouter "upload-gate/internal/adapters/handlers/http/chi"
	uploadhandler "upload-gate/internal/adapters/handlers/http/chi/v1/upload"
	"upload-gate/internal/adapters/repository/postgres"
	"upload-gate/internal/adapters/storage/minio"
	"upload-gate/internal/config"
	"upload-gate/internal/core/port"
	"upload-gate/internal/core/service/storageevent"
	"upload-gate/internal/core/service/sweeper"
	"upload-gate/internal/core/service/upload"
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

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//repositories and services
	unitOfWork := postgres.NewUnitOfWork(db)
	uploadService := upload.NewUploadService(unitOfWork, minioAdapter, cfg.Upload, logger)
	sweeperService := sweeper.NewSweeperService(unitOfWork, minioAdapter, cfg.Upload.StorageTimeout, logger)

	//bucket notifications
	natsConsumer, err := nats.NewConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init NATS consumer", "error", err)
		os.Exit(1)
	}
	eventService := storageevent.NewStorageEventService(uploadService, logger)
	if err := natsConsumer.Subscribe(ctx, eventService); err != nil {
		logger.Error("failed to subscribe to bucket notifications", "error", err)
		os.Exit(1)
	}

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, logger)
	router := chirouter.NewRouter(logger, uploadHandler, cfg.Env.Env)
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

	// frequent reclamation sweep plus an infrequent full pass that catches
	// cycles missed across process restarts
	wg.Add(1)
	go func() {
		defer wg.Done()
		runSweeper(ctx, sweeperService, cfg.Upload.SweepEvery, "sweep", logger)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		runSweeper(ctx, sweeperService, cfg.Upload.FullSweepEvery, "full_sweep", logger)
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

	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer", "error", err)
	}

	wg.Wait()
	logger.Info("app shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func runSweeper(ctx context.Context, service port.SweeperService, every time.Duration, name string, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("sweeper task initialized", "task", name, "interval", every)

	for {
		select {
		case <-ticker.C:
			reclaimed, err := service.SweepExpired(ctx, time.Now())
			if err != nil {
				logger.Error("sweep failed", "task", name, "error", err)
			} else if reclaimed > 0 {
				logger.Info("sweep reclaimed sessions", "task", name, "count", reclaimed)
			}
		case <-ctx.Done():
			logger.Info("sweeper task stopped", "task", name)
			return
		}
	}
}
