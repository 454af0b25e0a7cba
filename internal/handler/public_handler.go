package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
)

const (
	serviceName    = "ContentGenius API"
	serviceVersion = "1.0.0"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PublicHandler serves unauthenticated informational endpoints.
type PublicHandler struct {
	db     Pinger
	now    func() time.Time
	logger *slog.Logger
}

// NewPublicHandler builds the handler. db may be nil, in which case health
// reports healthy without checking storage.
func NewPublicHandler(db Pinger, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{db: db, now: time.Now, logger: logger}
}

func (h *PublicHandler) Languages(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"languages": domain.SupportedLanguages(),
	}, h.logger)
}

func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check: database ping failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	respondWithJSON(w, code, map[string]string{
		"status":    status,
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}, h.logger)
}
