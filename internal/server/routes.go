package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/campusguessr/internal/handler/health"
	"github.com/playperu/campusguessr/internal/metrics"
)

func addRoutes(r chi.Router, d Deps) {
	store, broker, logger := d.Store, d.Broker, d.Logger

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Campus Guessr API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, d.Checks).Routes())
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/buildings", handleBuildings(store))
		r.Post("/match", handleMatch(store))

		// Normal mode: type building names.
		r.Post("/games", handleNewGame(store))
		r.Get("/games/{id}", handleGameState(store))
		r.Post("/games/{id}/guess", handleGuess(logger, store, broker))
		r.Post("/games/{id}/reset", handleGameReset(store, broker))

		// Hard mode: click where each building is.
		r.Post("/hard", handleNewHard(store))
		r.Get("/hard/{id}", handleHardState(store))
		r.Post("/hard/{id}/guess", handleHardGuess(store, broker))
		r.Post("/hard/{id}/next", handleHardNext(logger, store, broker))
		r.Post("/hard/{id}/previous", handleHardPrevious(store, broker))
		r.Post("/hard/{id}/reset", handleHardReset(store, broker))

		r.Get("/sessions/{id}/events", handleEvents(store, broker))
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}
