package http

import (
	"net/http"
	"strings"
)

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusUnprocessableEntity, "Email obbligatoria")
		return
	}

	user, token, err := s.users.Signup(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserJSON(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Formato richiesta non valido")
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserJSON(user)})
}

// handleMe echoes the session identity carried by the token. Signout
// is client-side: drop the token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Sessione non valida")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"user_id": sess.UserID,
		"email":   sess.Email,
	})
}
