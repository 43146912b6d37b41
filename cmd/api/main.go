package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"deckgen/internal/http/handlers"
	"deckgen/internal/http/httpapi"
	"deckgen/internal/infra"
	"deckgen/internal/jobstore"
	"deckgen/internal/queue"
	"deckgen/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var store jobstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: db connection failed")
		}
		defer pool.Close()
		pg := jobstore.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("api: schema migration failed")
		}
		store = pg
	} else {
		logger.Warn().Msg("api: DATABASE_URL empty, using in-memory job store")
		store = jobstore.NewMemoryStore()
	}

	var q queue.Queue
	if cfg.NATSURL != "" {
		nq, err := queue.NewNATSQueue(queue.NATSOptions{
			URL:      cfg.NATSURL,
			Stream:   cfg.QueueStream,
			Subject:  cfg.QueueSubject,
			Consumer: cfg.QueueConsumer,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("api: queue connection failed")
		}
		defer nq.Close()
		q = nq
	} else {
		logger.Warn().Msg("api: NATS_URL empty, using in-process queue")
		q = queue.NewMemoryQueue(64)
	}

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	app := &handlers.App{
		Store:        store,
		Queue:        q,
		Files:        files,
		Logger:       logger,
		DefaultTheme: cfg.DefaultTheme,
	}

	router := httpapi.NewRouter(app, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
