// Package worker drives queued generation jobs to a terminal state. Each
// worker loops dequeue → claim → synthesize (raw-text flow only) → compose →
// publish, with the job store's claim transition as the mutual-exclusion
// gate between competing workers.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"deckgen/internal/compose"
	"deckgen/internal/domain"
	"deckgen/internal/infra"
	"deckgen/internal/jobstore"
	"deckgen/internal/queue"
	"deckgen/internal/storage"
	"deckgen/internal/synth"
)

const fallbackAuthor = "Generated Presentation"

// Options wires a Worker's collaborators.
type Options struct {
	Store       jobstore.Store
	Queue       queue.Queue
	Composer    *compose.Composer
	Synthesizer synth.Synthesizer
	Files       *storage.FileStore
	BaseURL     string
	Logger      infra.Logger
}

// Worker processes generation jobs until its context is cancelled.
type Worker struct {
	store    jobstore.Store
	queue    queue.Queue
	composer *compose.Composer
	synth    synth.Synthesizer
	files    *storage.FileStore
	baseURL  string
	logger   infra.Logger
}

// New builds a Worker from Options.
func New(opts Options) *Worker {
	return &Worker{
		store:    opts.Store,
		queue:    opts.Queue,
		composer: opts.Composer,
		synth:    opts.Synthesizer,
		files:    opts.Files,
		baseURL:  opts.BaseURL,
		logger:   opts.Logger,
	}
}

// RunPool runs n workers over the same queue and returns when all have
// stopped. The dequeue call is each worker's only suspension point.
func RunPool(ctx context.Context, n int, w *Worker) error {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error { return w.Run(ctx) })
	}
	return g.Wait()
}

// Run loops until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Msg("worker: started")
	for {
		delivery, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.Error().Err(err).Msg("worker: dequeue failed")
			continue
		}
		w.Handle(ctx, delivery)
	}
}

// Handle processes one delivery to its acknowledgement. Exported so tests
// can drive single deliveries without the loop.
func (w *Worker) Handle(ctx context.Context, d *queue.Delivery) {
	log := w.logger.With().Str("job_id", d.JobID).Logger()

	job, err := w.store.Claim(ctx, d.JobID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNotFound):
			// Duplicate delivery of a claimed or terminal job; drop it.
			log.Debug().Msg("worker: discarding duplicate delivery")
			if ackErr := d.Ack(); ackErr != nil {
				log.Warn().Err(ackErr).Msg("worker: ack of duplicate failed")
			}
		default:
			log.Error().Err(err).Msg("worker: claim failed, releasing delivery")
			if nackErr := d.Nack(); nackErr != nil {
				log.Warn().Err(nackErr).Msg("worker: nack failed")
			}
		}
		return
	}

	log.Info().Msg("worker: claimed job")

	result, jobErr := w.process(ctx, job)
	if jobErr != nil {
		log.Error().Str("kind", string(jobErr.Kind)).Str("reason", jobErr.Message).Msg("worker: job failed")
		if err := w.store.Fail(ctx, job.ID, *jobErr); err != nil {
			log.Error().Err(err).Msg("worker: persisting failure state failed")
		}
		// The job is terminal; terminate the delivery so the failure is
		// observable at the broker without triggering redelivery.
		if err := d.Term(); err != nil {
			log.Warn().Err(err).Msg("worker: term failed")
		}
		return
	}

	if err := w.store.Complete(ctx, job.ID, *result); err != nil {
		log.Error().Err(err).Msg("worker: persisting result failed")
		if nackErr := d.Nack(); nackErr != nil {
			log.Warn().Err(nackErr).Msg("worker: nack failed")
		}
		return
	}
	log.Info().Str("artifact_id", result.ArtifactID).Msg("worker: job succeeded")
	if err := d.Ack(); err != nil {
		log.Warn().Err(err).Msg("worker: ack failed")
	}
}

// process runs synthesis and composition and publishes the artifact. It
// returns either a result or a captured job error, never both.
func (w *Worker) process(ctx context.Context, job *domain.Job) (*domain.Result, *domain.JobError) {
	deck, message, jobErr := w.resolveDeck(ctx, job.Request)
	if jobErr != nil {
		return nil, jobErr
	}

	data, err := w.composer.Compose(*deck)
	if err != nil {
		return nil, &domain.JobError{Kind: domain.ErrorKindEncoding, Message: fmt.Sprintf("Error: %v", err)}
	}

	artifactID := fmt.Sprintf("%s-%s.pptx", storage.Slug(deck.Title), uuid.NewString())
	if _, err := w.files.Write(ctx, artifactID, data); err != nil {
		return nil, &domain.JobError{Kind: domain.ErrorKindEncoding, Message: fmt.Sprintf("Error: %v", err)}
	}

	return &domain.Result{
		ArtifactID: artifactID,
		FileURL:    w.baseURL + "/api/download/" + artifactID,
		Message:    message,
	}, nil
}

// resolveDeck normalizes the request into a composable deck, invoking the
// content synthesizer for the raw-text flow. Synthesis failures are reported
// identically to composition failures, just with their own error kind.
func (w *Worker) resolveDeck(ctx context.Context, req domain.GenerationRequest) (*domain.Deck, string, *domain.JobError) {
	if !req.FromRawText() {
		deck := *req.Deck
		if deck.Author == "" {
			deck.Author = fallbackAuthor
		}
		return &deck, "Presentation generated successfully", nil
	}

	raw := req.RawText
	if w.synth == nil {
		return nil, "", &domain.JobError{Kind: domain.ErrorKindSynthesis, Message: "Error: no content synthesizer configured"}
	}
	outline, err := w.synth.Synthesize(ctx, synth.Request{
		Text:      raw.Text,
		NumSlides: raw.NumSlides,
		Title:     raw.Title,
	})
	if err != nil {
		return nil, "", &domain.JobError{Kind: domain.ErrorKindSynthesis, Message: fmt.Sprintf("Error: %v", err)}
	}

	title := raw.Title
	if title == "" {
		title = outline.Title
	}
	if title == "" {
		title = fallbackAuthor
	}
	author := raw.Author
	if author == "" {
		author = fallbackAuthor
	}
	deck := &domain.Deck{
		Title:  title,
		Author: author,
		Theme:  raw.Theme,
		Slides: outline.Slides,
	}
	return deck, "Presentation generated successfully from PDF", nil
}
