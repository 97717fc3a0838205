package web

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/go-chi/chi/v5"
)

type faceRequest struct {
	UserID     string                `json:"userId"`
	Descriptor biometrics.Descriptor `json:"descriptor"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type checkResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	FaceRegistered bool   `json:"faceRegistered"`
}

type verifyResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Distance string `json:"distance"`
	Updated  bool   `json:"updated"`
}

var errFaceRequestIncomplete = fmt.Errorf("%w: User ID and face descriptor are required", common.ErrInvalidRequest)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeFaceRequest(w http.ResponseWriter, r *http.Request) (*faceRequest, error) {
	var req faceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if req.UserID == "" || len(req.Descriptor) == 0 {
		return nil, errFaceRequestIncomplete
	}
	return &req, nil
}

func (s *Server) saveFaceData(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeFaceRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if req.UserID != userIDFromContext(r.Context()) {
		respondJSON(w, http.StatusForbidden, errorBody{Message: "Token does not belong to this user", Kind: common.KindUnauthorized})
		return
	}

	if _, err := s.services.Enrollment.Enroll(r.Context(), req.UserID, req.Descriptor); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, messageResponse{Success: true, Message: "Face data saved successfully"})
}

func (s *Server) checkFaceData(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	enrolled, err := s.services.Enrollment.HasEnrolled(r.Context(), userID)
	if err != nil {
		if common.Kind(err) == common.KindUserNotFound {
			respondJSON(w, http.StatusNotFound, checkResponse{Message: "User not found"})
			return
		}
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, checkResponse{Success: true, FaceRegistered: enrolled})
}

func (s *Server) verifyFaceData(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeFaceRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.services.Verifier.Verify(r.Context(), req.UserID, req.Descriptor)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if !res.Matched {
		respondJSON(w, http.StatusUnauthorized, verifyResponse{
			Message:  "Face verification failed. Please ensure good lighting and try again.",
			Distance: formatDistance(res.Distance),
		})
		return
	}

	respondJSON(w, http.StatusOK, verifyResponse{
		Success:  true,
		Message:  "Face verified successfully",
		Distance: formatDistance(res.Distance),
		Updated:  res.Updated,
	})
}

func (s *Server) resetFaceData(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID != userIDFromContext(r.Context()) {
		respondJSON(w, http.StatusForbidden, errorBody{Message: "Token does not belong to this user", Kind: common.KindUnauthorized})
		return
	}

	if err := s.services.Enrollment.Reset(r.Context(), userID); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Face data removed"})
}
