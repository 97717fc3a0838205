package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.With(s.requireAuth).Post("/logout", s.logout)
	})

	s.router.Route("/face-data", func(r chi.Router) {
		r.Get("/check/{userId}", s.checkFaceData)
		r.Post("/verify", s.verifyFaceData)
		r.Post("/face-verify", s.verifyFaceData)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/save", s.saveFaceData)
			r.Delete("/{userId}", s.resetFaceData)
		})
	})

	s.router.Route("/passwords", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.listPasswords)
		r.Post("/", s.createPassword)
		r.Put("/{id}", s.updatePassword)
		r.Delete("/{id}", s.deletePassword)
	})
}
