package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/usecase"
	"github.com/GoArmGo/ContentGenius/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// family describes how one content type is exposed over HTTP.
type family struct {
	path     string
	started  string
	notFound string
}

var families = map[domain.ContentType]family{
	domain.ContentTypeArticle: {
		path:     "articles",
		started:  "Article generation started. Use the UUID to check status.",
		notFound: "Article not found.",
	},
	domain.ContentTypeRewrite: {
		path:     "rewrites",
		started:  "Text rewrite started. Use the UUID to check status.",
		notFound: "Rewrite not found.",
	},
	domain.ContentTypeSummary: {
		path:     "summaries",
		started:  "Text summary started. Use the UUID to check status.",
		notFound: "Summary not found.",
	},
	domain.ContentTypeEmail: {
		path:     "emails",
		started:  "Email generation started. Use the UUID to check status.",
		notFound: "Email not found.",
	},
	domain.ContentTypeTranslation: {
		path:     "translations",
		started:  "Translation started. Use the UUID to check status.",
		notFound: "Translation not found.",
	},
}

// ContentHandler serves the create, list and show endpoints of one content type.
type ContentHandler struct {
	base
	content usecase.ContentUseCase
	family  family
}

func NewContentHandler(content usecase.ContentUseCase, v *validation.Validator, logger *slog.Logger, debug bool) *ContentHandler {
	t := content.ContentType()
	return &ContentHandler{
		base:    base{validator: v, logger: logger.With("content_type", string(t)), debug: debug},
		content: content,
		family:  families[t],
	}
}

// Routes mounts the handler under /{family}.
func (h *ContentHandler) Routes(r chi.Router) {
	r.Route("/"+h.family.path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{uuid}", h.Show)
	})
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	input, ok := domain.NewContentInput(h.content.ContentType())
	if !ok {
		h.serverError(w, r, errors.New("handler: no input type for "+string(h.content.ContentType())))
		return
	}
	if !h.bind(w, r, input) {
		return
	}

	g, err := h.content.Create(r.Context(), rc.User, input)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			respondInsufficientCredits(w, h.content.ContentType().CreditCost(), rc.User.Credits, h.logger)
			return
		}
		h.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusAccepted, h.family.started, newGenerationView(g), h.logger)
}

func (h *ContentHandler) Show(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, h.family.notFound, h.logger)
		return
	}

	g, err := h.content.GetByUUID(r.Context(), rc.User, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, h.family.notFound, h.logger)
			return
		}
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", newGenerationView(g), h.logger)
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	page, err := h.content.ListForUser(r.Context(), rc.User, pageFromQuery(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{
		h.family.path: newGenerationViews(page.Items),
		"pagination":  newPaginationView(page),
	}, h.logger)
}

func respondInsufficientCredits(w http.ResponseWriter, required, balance int, logger *slog.Logger) {
	respondWithJSON(w, http.StatusPaymentRequired, envelope{
		Success: false,
		Message: "Insufficient credits. Please purchase more credits to continue.",
		Data: map[string]int{
			"required_credits": required,
			"current_balance":  balance,
		},
	}, logger)
}
