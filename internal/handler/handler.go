package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/validation"
)

const maxBodyBytes = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// respondWithJSON writes payload as the response body.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, code int, message string, data any, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{Success: true, Message: message, Data: data}, logger)
}

// respondWithError writes a failure envelope.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{Success: false, Message: message}, logger)
}

func respondValidation(w http.ResponseWriter, errs validation.Errors, logger *slog.Logger) {
	respondWithJSON(w, http.StatusUnprocessableEntity, envelope{
		Success: false,
		Message: "Validation failed.",
		Errors:  errs,
	}, logger)
}

// base carries what every handler needs to answer a request.
type base struct {
	validator *validation.Validator
	logger    *slog.Logger
	debug     bool
}

// serverError logs err and hides it from the client unless debug is on.
func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	message := "An unexpected error occurred."
	if b.debug {
		message = err.Error()
	}
	respondWithError(w, http.StatusInternalServerError, message, b.logger)
}

// bind decodes a JSON body into dst and validates it. It writes the error
// response itself and reports false when the request cannot proceed.
func (b *base) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if errs := decodeJSON(r, dst); errs != nil {
		respondValidation(w, errs, b.logger)
		return false
	}
	if errs := b.validator.Struct(dst); errs != nil {
		respondValidation(w, errs, b.logger)
		return false
	}
	return true
}

func decodeJSON(r *http.Request, dst any) validation.Errors {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		// an empty body leaves dst zero; validation reports the missing fields
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		return validation.Errors{field: {
			fmt.Sprintf("The %s must be of type %s.", strings.ReplaceAll(field, "_", " "), jsonKind(typeErr.Type.Kind().String())),
		}}
	}
	return validation.Errors{"body": {"The request body must be valid JSON."}}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int64", "int32", "float64":
		return "integer"
	case "string":
		return "string"
	}
	return goKind
}

// pageFromQuery reads page and per_page, falling back to defaults on junk input.
func pageFromQuery(r *http.Request) domain.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return domain.NewPageRequest(page, perPage)
}
