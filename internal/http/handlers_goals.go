package http

import (
	"net/http"

	"moneywise/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	goals, err := s.goals.List(r.Context(), sess)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalsJSON(goals))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}
	goal, err := req.toDomain()
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	created, err := s.goals.Create(r.Context(), sess, goal)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalJSON(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}
	goal, err := req.toDomain()
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	updated, err := s.goals.Update(r.Context(), sess, r.PathValue("id"), goal)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := s.goals.Delete(r.Context(), sess, r.PathValue("id")); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleGoalCategories returns the fixed catalog backing goal forms.
func (s *Server) handleGoalCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"categories": core.FallbackGoalCategories,
	})
}

// handleGoalBudget reports the monthly budget derived from open goals.
func (s *Server) handleGoalBudget(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	budget, err := s.goals.MonthlyBudget(r.Context(), sess)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"budget": budget.Euros()})
}

type contributeRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}

	goal, err := s.goals.Contribute(r.Context(), sess, r.PathValue("id"), core.FromEuros(req.Amount))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(goal))
}
