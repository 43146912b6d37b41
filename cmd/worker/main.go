package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deckgen/internal/compose"
	"deckgen/internal/infra"
	"deckgen/internal/jobstore"
	"deckgen/internal/pptx"
	"deckgen/internal/queue"
	"deckgen/internal/storage"
	"deckgen/internal/synth"
	"deckgen/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store jobstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: db connection failed")
		}
		defer pool.Close()
		pg := jobstore.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("worker: schema migration failed")
		}
		store = pg
	} else {
		logger.Warn().Msg("worker: DATABASE_URL empty, using in-memory job store")
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
			logger.Fatal().Err(err).Msg("worker: queue connection failed")
		}
		defer nq.Close()
		q = nq
	} else {
		logger.Warn().Msg("worker: NATS_URL empty, using in-process queue")
		q = queue.NewMemoryQueue(64)
	}

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	synthesizer := buildSynthesizer(cfg, logger)
	composer := compose.New(func(theme string) compose.Encoder { return pptx.New(theme) })

	w := worker.New(worker.Options{
		Store:       store,
		Queue:       q,
		Composer:    composer,
		Synthesizer: synthesizer,
		Files:       files,
		BaseURL:     cfg.PublicBaseURL,
		Logger:      logger,
	})

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker: started")
	if err := worker.RunPool(ctx, cfg.WorkerConcurrency, w); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// buildSynthesizer picks the outline provider. Without an API key the
// static synthesizer runs alone, so raw-text jobs still complete.
func buildSynthesizer(cfg *infra.Config, logger infra.Logger) synth.Synthesizer {
	static := synth.NewStaticSynthesizer()
	if cfg.SynthProvider != "gemini" || cfg.GeminiAPIKey == "" {
		logger.Warn().Str("provider", cfg.SynthProvider).Msg("worker: gemini unavailable, using static outline synthesis")
		return static
	}
	gemini, err := synth.NewGeminiSynthesizer(synth.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Fallback:   static,
		OnFallback: func(reason string, err error) {
			logger.Warn().Err(err).Str("reason", reason).Msg("worker: gemini fallback engaged")
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("worker: failed to configure gemini, using static outline synthesis")
		return static
	}
	return gemini
}
