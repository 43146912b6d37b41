package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"deckgen/internal/compose"
	"deckgen/internal/domain"
	"deckgen/internal/http/handlers"
	"deckgen/internal/http/httpapi"
	"deckgen/internal/jobstore"
	"deckgen/internal/pptx"
	"deckgen/internal/queue"
	"deckgen/internal/storage"
	"deckgen/internal/worker"
)

type apiFixture struct {
	store  *jobstore.MemoryStore
	queue  *queue.MemoryQueue
	files  *storage.FileStore
	server http.Handler
	worker *worker.Worker
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := jobstore.NewMemoryStore()
	q := queue.NewMemoryQueue(16)
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	logger := zerolog.Nop()
	app := &handlers.App{
		Store:        store,
		Queue:        q,
		Files:        files,
		Logger:       logger,
		DefaultTheme: "default",
	}
	w := worker.New(worker.Options{
		Store:    store,
		Queue:    q,
		Composer: compose.New(func(theme string) compose.Encoder { return pptx.New(theme) }),
		Files:    files,
		BaseURL:  "http://localhost:8080",
		Logger:   logger,
	})
	return &apiFixture{
		store:  store,
		queue:  q,
		files:  files,
		server: httpapi.NewRouter(app, logger),
		worker: w,
	}
}

func (f *apiFixture) drainOne(t *testing.T) {
	t.Helper()
	d, err := f.queue.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue returned error: %v", err)
	}
	f.worker.Handle(context.Background(), d)
}

const validDeck = `{
	"title": "Roadmap",
	"author": "Ada",
	"slides": [
		{"type": "title", "title": "A"},
		{"type": "bullet_points", "title": "B", "bullet_points": ["x", "y"]}
	]
}`

func TestSubmitDeckReturnsTaskIDImmediately(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/presentations", strings.NewReader(validDeck))
	f.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TaskID == "" {
		t.Fatal("task_id missing from response")
	}

	job, err := f.store.Get(context.Background(), resp.TaskID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if job.State != domain.JobStatePending {
		t.Fatalf("job state = %q, want pending", job.State)
	}
	if f.queue.Len() != 1 {
		t.Fatalf("queued tasks = %d, want 1", f.queue.Len())
	}
}

func TestSubmitInvalidDeckCreatesNoJob(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	body := `{"title": "t", "slides": [{"type": "hologram", "title": "x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/presentations", strings.NewReader(body))
	f.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if f.queue.Len() != 0 {
		t.Fatalf("queued tasks = %d, want 0", f.queue.Len())
	}
}

func TestStatusLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/presentations", strings.NewReader(validDeck)))
	var created struct {
		TaskID string `json:"task_id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	status := func() map[string]any {
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presentations/"+created.TaskID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status code = %d, want 200", rec.Code)
		}
		var m map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &m)
		return m
	}

	if got := status(); got["status"] != "pending" {
		t.Fatalf("status before processing = %v, want pending", got["status"])
	}

	f.drainOne(t)

	got := status()
	if got["status"] != "completed" {
		t.Fatalf("status after processing = %v, want completed", got["status"])
	}
	if got["file_url"] == "" || got["file_url"] == nil {
		t.Fatalf("completed status missing file_url: %v", got)
	}
	if got["message"] != "Presentation generated successfully" {
		t.Fatalf("message = %v", got["message"])
	}
}

func TestStatusUnknownTask(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presentations/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatusReportsRunningAsProcessing(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	id, err := f.store.Create(ctx, domain.GenerationRequest{Deck: &domain.Deck{Title: "d"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := f.store.Claim(ctx, id); err != nil {
		t.Fatalf("Claim returned error: %v", err)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presentations/"+id, nil))
	var m map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &m)
	if m["status"] != "processing" {
		t.Fatalf("status = %v, want processing", m["status"])
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/presentations", strings.NewReader(validDeck)))
	var created struct {
		TaskID string `json:"task_id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	f.drainOne(t)

	job, err := f.store.Get(context.Background(), created.TaskID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	published, err := f.files.Read(context.Background(), job.Result.ArtifactID)
	if err != nil {
		t.Fatalf("artifact not in store: %v", err)
	}

	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/"+job.Result.ArtifactID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), published) {
		t.Fatal("downloaded bytes differ from published artifact")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "presentation_") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
}

func TestDownloadUnknownArtifact(t *testing.T) {
	f := newAPIFixture(t)

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/missing.pptx", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestFromPDFRejectsNonPDFUpload(t *testing.T) {
	f := newAPIFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("pdf_file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile returned error: %v", err)
	}
	_, _ = part.Write([]byte("plain text"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/presentations/from-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "File must be a PDF") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if f.queue.Len() != 0 {
		t.Fatalf("queued tasks = %d, want 0", f.queue.Len())
	}
}
