package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/usecase"
	"github.com/GoArmGo/ContentGenius/internal/validation"
)

// AuthHandler serves registration, login, the current user and the profile.
type AuthHandler struct {
	base
	auth    usecase.AuthUseCase
	credits *usecase.CreditService
}

func NewAuthHandler(auth usecase.AuthUseCase, credits *usecase.CreditService, v *validation.Validator, logger *slog.Logger, debug bool) *AuthHandler {
	return &AuthHandler{
		base:    base{validator: v, logger: logger, debug: debug},
		auth:    auth,
		credits: credits,
	}
}

type authView struct {
	User      userView `json:"user"`
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if !h.bind(w, r, &in) {
		return
	}

	res, err := h.auth.Register(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondValidation(w, validation.Errors{"email": {"The email has already been taken."}}, h.logger)
			return
		}
		h.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Registration successful. Welcome to ContentGenius!", authView{
		User:      newUserView(res.User),
		Token:     res.Token,
		TokenType: "Bearer",
	}, h.logger)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if !h.bind(w, r, &in) {
		return
	}

	res, err := h.auth.Login(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials.", h.logger)
			return
		}
		h.serverError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Login successful.", authView{
		User:      newUserView(res.User),
		Token:     res.Token,
		TokenType: "Bearer",
	}, h.logger)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())
	if err := h.auth.Logout(r.Context(), rc.Token); err != nil {
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Logged out successfully.", nil, h.logger)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"user":    newUserView(rc.User),
		"credits": rc.User.Credits,
		"pricing": h.credits.Pricing(),
	}, h.logger)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"user": newUserView(rc.User),
		"credits": map[string]any{
			"balance": rc.User.Credits,
			"pricing": h.credits.Pricing(),
		},
	}, h.logger)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())

	var in usecase.UpdateProfileInput
	if !h.bind(w, r, &in) {
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), rc.User, in)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Profile updated successfully.", newUserView(user), h.logger)
}

func (h *AuthHandler) Credits(w http.ResponseWriter, r *http.Request) {
	rc, _ := FromContext(r.Context())
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"balance":           rc.User.Credits,
		"total_generations": rc.User.TotalGenerations,
		"pricing":           h.credits.Pricing(),
	}, h.logger)
}
