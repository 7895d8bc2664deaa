package ui

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"goattend/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// App is the operations sidecar: liveness and the AI usage ledger. It runs
// on its own port so the analysis surface and the ops surface can be
// firewalled separately.
type App struct {
	router    *chi.Mux
	usageRepo ports.LLMUsageRepository
	startedAt time.Time
}

// NewApp creates the ops application. usageRepo may be nil when no ledger
// database is configured.
func NewApp(usageRepo ports.LLMUsageRepository) *App {
	app := &App{
		router:    chi.NewRouter(),
		usageRepo: usageRepo,
		startedAt: time.Now(),
	}

	app.router.Use(middleware.RequestID)
	app.router.Use(middleware.Logger)
	app.router.Use(middleware.Recoverer)

	app.router.Get("/healthz", app.handleHealthz)
	app.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/usage", app.handleUsage)
	})

	return app
}

// Start runs the ops server, blocking.
func (a *App) Start(addr string) error {
	log.Printf("[OpsApp] Starting operations API on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the mux for tests.
func (a *App) Router() *chi.Mux {
	return a.router
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(a.startedAt).Seconds()),
	})
}

func (a *App) handleUsage(w http.ResponseWriter, r *http.Request) {
	if a.usageRepo == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "usage ledger not configured"})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := a.usageRepo.GetRecent(ctx, limit)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}
	render.JSON(w, r, map[string]interface{}{"usage": records, "count": len(records)})
}
