package api

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

// ─── POST /api/auth/login ─────────────────────────────────────────────────────

// handleLogin issues a bearer token for an email address, creating the user
// row on first login. The frontend gates this behind its own email
// verification flow; the backend treats a verified email as the identity.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := s.store.EnsureUser(r.Context(), req.Email)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("ensure user: %w", err))
		return
	}

	token, err := s.auth.Issue(user.Email)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("issue token: %w", err))
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"token":    token,
		"email":    user.Email,
		"has_paid": user.HasPaid,
	})
}

// ─── GET /api/me ──────────────────────────────────────────────────────────────

// handleGetMe returns the authenticated user's profile, including the payment
// flag the frontend uses to gate the generate/download actions.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	respond(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name.String,
		"has_paid": user.HasPaid,
		"is_admin": user.IsAdmin,
	})
}
