package handlers

import (
	"encoding/json"
	"net/http"

	"deckgen/internal/infra"
	"deckgen/internal/jobstore"
	"deckgen/internal/queue"
	"deckgen/internal/storage"
)

// App bundles the collaborators the HTTP surface needs. It holds no business
// logic of its own: submission writes through the store and queue, status
// reads the store, download reads the artifact store.
type App struct {
	Store        jobstore.Store
	Queue        queue.Queue
	Files        *storage.FileStore
	Logger       infra.Logger
	DefaultTheme string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{"error": kind, "message": message})
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
