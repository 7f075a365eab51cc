package http

import (
	"net/http"
	"strconv"

	"moneywise/internal/core"
	"moneywise/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	txs, err := s.transactions.ListRecent(r.Context(), sess, limit)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionsJSON(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}
	tx, err := req.toDomain()
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), sess, tx)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}
	tx, err := req.toDomain()
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), sess, r.PathValue("id"), tx)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := s.transactions.Delete(r.Context(), sess, r.PathValue("id")); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusNoContent, nil)
}

type cloneRequest struct {
	Title  *string  `json:"title"`
	Amount *float64 `json:"amount"`
	Date   *string  `json:"date"`
}

func (s *Server) handleCloneTransaction(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req cloneRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
			return
		}
	}

	overrides, err := req.toOverrides()
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	clone, err := s.transactions.CloneRecurring(r.Context(), sess, r.PathValue("id"), overrides)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.invalidateStats(sess.UserID)
	respondJSON(w, http.StatusCreated, toTransactionJSON(clone))
}

func (req cloneRequest) toOverrides() (services.CloneOverrides, error) {
	overrides := services.CloneOverrides{Title: req.Title}
	if req.Amount != nil {
		m := core.FromEuros(*req.Amount)
		overrides.Amount = &m
	}
	if req.Date != nil {
		d, err := core.ParseDate(*req.Date)
		if err != nil {
			return overrides, err
		}
		overrides.Date = &d
	}
	return overrides, nil
}
