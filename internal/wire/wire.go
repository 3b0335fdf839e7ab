package wire

import (
	"net/http"
	"time"

	"backoffice/internal/adaptor"
	"backoffice/internal/usecase"
	"backoffice/pkg/metrics"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring builds the handlers over service and mounts every route.
func Wiring(service *usecase.Service, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSAllowedOrigins))
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Actor(logger))

		writeLimit := writeLimiter(config.App.RateLimitPerMinute)

		r.Get("/countries", handler.Country.List)
		r.Route("/clients", func(r chi.Router) {
			wireIdentity(r, handler.Client, writeLimit)
		})
		r.Route("/settings/team", func(r chi.Router) {
			wireIdentity(r, handler.Staff, writeLimit)
		})
		r.Route("/settings/tags", func(r chi.Router) {
			wireTags(r, handler.Tag, writeLimit)
		})
	})

	return r
}

// writeLimiter caps mutating requests per client IP. A non-positive limit
// disables it.
func writeLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}
