package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/usecase"
	"github.com/GoArmGo/ContentGenius/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HistoryHandler serves the cross-type history endpoints.
type HistoryHandler struct {
	base
	history usecase.HistoryUseCase
}

func NewHistoryHandler(history usecase.HistoryUseCase, v *validation.Validator, logger *slog.Logger, debug bool) *HistoryHandler {
	return &HistoryHandler{
		base:    base{validator: v, logger: logger, debug: debug},
		history: history,
	}
}

func (h *HistoryHandler) Routes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{uuid}", h.Show)
		r.Get("/{uuid}/download", h.Download)
	})
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())
	q := r.URL.Query()

	// unknown values filter everything out rather than erroring
	filter := domain.GenerationFilter{
		Type:   domain.ContentType(q.Get("type")),
		Status: domain.Status(q.Get("status")),
	}

	page, err := h.history.List(r.Context(), rc.User, filter, pageFromQuery(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "", map[string]any{
		"history":    newGenerationViews(page.Items),
		"pagination": newPaginationView(page),
		"filters": map[string]*string{
			"type":   optional(q.Get("type")),
			"status": optional(q.Get("status")),
		},
	}, h.logger)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *HistoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Content not found.", h.logger)
		return
	}
	g, err := h.history.Show(r.Context(), rc.User, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Content not found.", h.logger)
			return
		}
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", newGenerationView(g), h.logger)
}

func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	stats, err := h.history.Stats(r.Context(), rc.User)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", stats, h.logger)
}

// Download streams the archived markdown of a completed record.
func (h *HistoryHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Content not found.", h.logger)
		return
	}

	body, g, err := h.history.OpenArchive(r.Context(), rc.User, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Archived output not found.", h.logger)
		case errors.Is(err, usecase.ErrArchiveUnavailable):
			respondWithError(w, http.StatusNotFound, "Output archive is not enabled.", h.logger)
		default:
			h.serverError(w, r, err)
		}
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.md"`, g.Type, g.UUID))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("failed to stream archived output", "uuid", g.UUID, "error", err)
	}
}
