package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moneywise/internal/auth"
	"moneywise/internal/core"
	applog "moneywise/internal/log"
)

type contextKey string

const sessionKey contextKey = "session"

func sessionInto(ctx context.Context, s core.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFrom(ctx context.Context) (core.Session, bool) {
	s, ok := ctx.Value(sessionKey).(core.Session)
	return s, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("Failed encoding response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps sentinel errors to statuses and messages.
// Internal failures surface as a generic message with specifics logged.
func respondDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "Elemento non trovato")
	case errors.Is(err, core.ErrNoSession), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "Sessione non valida")
	case errors.Is(err, auth.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, "Credenziali non valide")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusUnprocessableEntity, "La password deve avere almeno 6 caratteri")
	case errors.Is(err, core.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Email già registrata")
	case errors.Is(err, core.ErrDefaultImmutable):
		respondError(w, http.StatusUnprocessableEntity, "Le categorie predefinite non si possono eliminare")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyEmail),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrMissingPeriod),
		errors.Is(err, core.ErrInvalidExpense),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidTargetDate),
		errors.Is(err, core.ErrNotRecurring):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		applog.FromContext(ctx).ErrorContext(ctx, "Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Si è verificato un errore")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
