package web

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokenTTL.Seconds()),
	})
}

func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentials, error) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		return nil, err
	}
	if c.Email == "" || c.Password == "" {
		return nil, fmt.Errorf("%w: Email and password are required", common.ErrInvalidRequest)
	}
	return &c, nil
}

func (s *Server) respondTokens(w http.ResponseWriter, status int, message string, tokens *services.TokenPair) {
	s.setTokenCookie(w, tokens.AccessToken)
	respondJSON(w, status, authResponse{
		Message:      message,
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       tokens.UserID,
	})
}

// signup registers the account and signs it in straight away.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	c, err := s.decodeCredentials(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.services.Users.Register(r.Context(), c.Email, c.Password); err != nil {
		s.respondError(w, r, err)
		return
	}

	tokens, err := s.services.Users.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondTokens(w, http.StatusCreated, "User created successfully", tokens)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	c, err := s.decodeCredentials(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tokens, err := s.services.Users.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondTokens(w, http.StatusOK, "Login successful", tokens)
}

// logout clears the cookie and, when given, revokes the refresh token.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	if req.RefreshToken != "" {
		if err := s.services.Users.Logout(r.Context(), req.RefreshToken); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{Name: tokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}
