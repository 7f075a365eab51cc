package http

import (
	"net/http"
	"time"

	"moneywise/internal/core"
)

type setLimitRequest struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

func (s *Server) handleListLimits(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	statuses, err := s.limits.WithCurrentSpend(r.Context(), sess, time.Now())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	out := make([]limitJSON, len(statuses))
	for i, st := range statuses {
		out[i] = toLimitJSON(st)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req setLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}

	limit, err := s.limits.Set(r.Context(), sess, req.Category, core.FromEuros(req.MonthlyLimit))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusOK, map[string]any{
		"id":            limit.ID,
		"category":      limit.Category,
		"monthly_limit": limit.MonthlyLimit.Euros(),
	})
}

func (s *Server) handleDeleteLimit(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := s.limits.Delete(r.Context(), sess, r.PathValue("id")); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusNoContent, nil)
}
