package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"deckgen/internal/domain"
	"deckgen/internal/pdftext"
	"deckgen/internal/queue"
	"deckgen/internal/schema"
	"deckgen/internal/synth"
)

const (
	maxDeckBodyBytes  = 1 << 20
	maxPDFUploadBytes = 32 << 20

	defaultAuthor = "Generated Presentation"
)

type presentationResponse struct {
	TaskID string `json:"task_id"`
}

type presentationStatus struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	FileURL string `json:"file_url,omitempty"`
	Message string `json:"message,omitempty"`
}

// CreatePresentation accepts a structured deck, validates it synchronously
// and enqueues a generation job. The response returns the job id
// immediately; composition never happens on this path.
func (a *App) CreatePresentation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDeckBodyBytes))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unable to read request body")
		return
	}
	deck, err := schema.DecodeDeck(body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			a.error(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to decode request")
		return
	}
	if deck.Author == "" {
		deck.Author = defaultAuthor
	}
	if deck.Theme == "" {
		deck.Theme = a.DefaultTheme
	}

	a.submit(w, r, domain.GenerationRequest{Deck: deck})
}

// CreatePresentationFromPDF accepts a multipart PDF upload, extracts its
// text synchronously and enqueues a raw-text job for the synthesis flow.
func (a *App) CreatePresentationFromPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPDFUploadBytes)
	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "pdf_file is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		a.error(w, http.StatusBadRequest, "validation_error", "File must be a PDF")
		return
	}

	text, err := pdftext.Extract(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "unable to read PDF content")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = "Presentation based on " + header.Filename
	}
	author := strings.TrimSpace(r.FormValue("author"))
	if author == "" {
		author = defaultAuthor
	}
	theme := strings.TrimSpace(r.FormValue("theme"))
	if theme == "" {
		theme = a.DefaultTheme
	}
	numSlides := synth.DefaultSlideCount
	if v := r.FormValue("num_slides"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "validation_error", "num_slides must be a positive integer")
			return
		}
		numSlides = n
	}

	a.submit(w, r, domain.GenerationRequest{RawText: &domain.RawTextRequest{
		Text:      text,
		NumSlides: numSlides,
		Title:     title,
		Author:    author,
		Theme:     theme,
	}})
}

func (a *App) submit(w http.ResponseWriter, r *http.Request, req domain.GenerationRequest) {
	id, err := a.Store.Create(r.Context(), req)
	if err != nil {
		a.Logger.Error().Err(err).Msg("api: create job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create job")
		return
	}
	if err := a.Queue.Enqueue(r.Context(), queue.Task{JobID: id, Request: req}); err != nil {
		a.Logger.Error().Err(err).Str("job_id", id).Msg("api: enqueue failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, presentationResponse{TaskID: id})
}

// GetPresentationStatus maps job state to the wire status. Internal state
// names are not part of the contract: anything that is neither pending nor
// terminal reports as processing.
func (a *App) GetPresentationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "task_id")
	job, err := a.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", id).Msg("api: status lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load task")
		return
	}

	status := presentationStatus{TaskID: id}
	switch job.State {
	case domain.JobStatePending:
		status.Status = "pending"
		status.Message = "Task is pending"
	case domain.JobStateSucceeded:
		status.Status = "completed"
		if job.Result != nil {
			status.FileURL = job.Result.FileURL
			status.Message = job.Result.Message
		}
	case domain.JobStateFailed:
		status.Status = "failed"
		status.Message = "Unknown error"
		if job.Error != nil && job.Error.Message != "" {
			status.Message = job.Error.Message
		}
	default:
		status.Status = "processing"
		status.Message = "Task is in progress"
	}
	a.json(w, http.StatusOK, status)
}

// DownloadPresentation streams artifact bytes. It consults only the
// artifact store; job state is never inferred here.
func (a *App) DownloadPresentation(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")
	data, err := a.Files.Read(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "File not found")
			return
		}
		a.Logger.Error().Err(err).Str("file_id", fileID).Msg("api: artifact read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read file")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="presentation_`+fileID+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
