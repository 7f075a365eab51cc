package http

import (
	"net/http"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type categoryPatchRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	categories, err := s.categories.List(r.Context(), sess)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoriesJSON(categories))
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}

	created, err := s.categories.Add(r.Context(), sess, core.Category{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryJSON(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}

	updated, err := s.categories.Update(r.Context(), sess, r.PathValue("id"), store.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryJSON(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := s.categories.Delete(r.Context(), sess, r.PathValue("id")); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleInitializeDefaults(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	categories, err := s.categories.InitializeDefaults(r.Context(), sess)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoriesJSON(categories))
}

func (s *Server) handleCategoryNames(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	names, err := s.categories.Names(r.Context(), sess)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"names": names})
}
