package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/lockwise/internal/common"
)

// maxBodyBytes caps request bodies; a 4096-d descriptor fits comfortably.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// statusForKind maps a stable error kind to an HTTP status.
func statusForKind(kind string) int {
	switch kind {
	case common.KindInvalidRequest, common.KindAlreadyExists:
		return http.StatusBadRequest
	case common.KindUserNotFound, common.KindNoTemplate, common.KindEntryNotFound:
		return http.StatusNotFound
	case common.KindDimensionMismatch:
		return http.StatusUnprocessableEntity
	case common.KindStorageFailure:
		return http.StatusServiceUnavailable
	case common.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func messageForKind(kind string, err error) string {
	switch kind {
	case common.KindUserNotFound:
		return "User not found"
	case common.KindNoTemplate:
		return "No face data found for the user. Please setup your face recognition first."
	case common.KindEntryNotFound:
		return "Password not found"
	case common.KindDimensionMismatch:
		return "Face descriptor length does not match the enrolled one"
	case common.KindStorageFailure:
		return "Storage temporarily unavailable"
	case common.KindAlreadyExists:
		return "User already exists"
	case common.KindUnauthorized:
		return "Invalid credentials"
	case common.KindInvalidRequest:
		return err.Error()
	default:
		return "Internal server error"
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := common.Kind(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}
	respondJSON(w, status, errorBody{Message: messageForKind(kind, err), Kind: kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", common.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: invalid request body", common.ErrInvalidRequest)
	}
	return nil
}

// formatDistance renders a distance with four decimals.
func formatDistance(d float64) string {
	return fmt.Sprintf("%.4f", d)
}
