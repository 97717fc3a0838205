package web

import (
	"net/http"

	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type passwordEntry struct {
	ID       string `json:"_id"`
	Site     string `json:"site"`
	Email    string `json:"email"`
	Password string `json:"password"`
	URL      string `json:"URL"`
	Category string `json:"category"`
}

// passwordRequest decodes both create and edit bodies. A nil field was
// absent from the JSON.
type passwordRequest struct {
	Site     *string `json:"site"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	URL      *string `json:"URL"`
	Category *string `json:"category"`
}

type passwordListResponse struct {
	Passwords []passwordEntry `json:"passwords"`
}

type passwordDeletedResponse struct {
	Message   string `json:"message"`
	DeletedID string `json:"deletedId"`
}

func toPasswordEntry(c *models.Credential) passwordEntry {
	return passwordEntry{
		ID:       c.ID,
		Site:     c.Site,
		Email:    c.Email,
		Password: c.Password,
		URL:      c.URL,
		Category: c.Category,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) listPasswords(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Passwords.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := passwordListResponse{Passwords: make([]passwordEntry, 0, len(list))}
	for i := range list {
		out.Passwords = append(out.Passwords, toPasswordEntry(&list[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	c, err := s.services.Passwords.Create(r.Context(), userIDFromContext(r.Context()), models.Credential{
		Site:     deref(req.Site),
		Email:    deref(req.Email),
		Password: deref(req.Password),
		URL:      deref(req.URL),
		Category: deref(req.Category),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPasswordEntry(c))
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	c, err := s.services.Passwords.Update(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), services.CredentialPatch{
		Site:     req.Site,
		Email:    req.Email,
		Password: req.Password,
		URL:      req.URL,
		Category: req.Category,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toPasswordEntry(c))
}

func (s *Server) deletePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.services.Passwords.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, passwordDeletedResponse{Message: "Password deleted successfully", DeletedID: id})
}
