package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/usecase"
	"github.com/GoArmGo/ContentGenius/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP-level settings of the API.
type RouterConfig struct {
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	Debug              bool
}

// Services are the use cases the API exposes.
type Services struct {
	Contents []usecase.ContentUseCase
	History  usecase.HistoryUseCase
	Auth     usecase.AuthUseCase
	Credits  *usecase.CreditService
	DB       Pinger
}

// NewRouter builds the full HTTP API.
func NewRouter(cfg RouterConfig, svc Services, logger *slog.Logger) http.Handler {
	v := validation.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Metrics)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Resource not found.", logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed.", logger)
	})

	public := NewPublicHandler(svc.DB, logger)
	authH := NewAuthHandler(svc.Auth, svc.Credits, v, logger, cfg.Debug)
	historyH := NewHistoryHandler(svc.History, v, logger, cfg.Debug)

	r.Get("/health", public.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Get("/languages", public.Languages)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(svc.Auth, logger))

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", authH.Me)

			r.Get("/profile", authH.Profile)
			r.Put("/profile", authH.UpdateProfile)
			r.Get("/profile/credits", authH.Credits)

			for _, content := range svc.Contents {
				NewContentHandler(content, v, logger, cfg.Debug).Routes(r)
			}
			historyH.Routes(r)
		})
	})

	return r
}
