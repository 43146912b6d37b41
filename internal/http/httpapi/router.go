package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"deckgen/internal/http/handlers"
	"deckgen/internal/infra"
	"deckgen/internal/middleware"
)

// NewRouter assembles the API surface.
func NewRouter(app *handlers.App, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/presentations", app.CreatePresentation)
		r.Post("/presentations/from-pdf", app.CreatePresentationFromPDF)
		r.Get("/presentations/{task_id}", app.GetPresentationStatus)
		r.Get("/download/{file_id}", app.DownloadPresentation)
	})

	return r
}
