package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"navjivan-backend/internal/middleware"
	"navjivan-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse is a success response that only carries a message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondJSON writes body as JSON with statusCode
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Success: false, Message: message})
}

// respondServiceError maps a service error to its status code and client
// message. Unexpected errors are logged and hidden behind "Server error".
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch services.Classify(err) {
	case services.KindValidation:
		respondError(w, clientMessage(err), http.StatusBadRequest)
	case services.KindConflict:
		respondError(w, clientMessage(err), http.StatusBadRequest)
	case services.KindNotFound:
		respondError(w, clientMessage(err), http.StatusNotFound)
	default:
		log.Error().
			Err(err).
			Str("op", op).
			Str("user_id", middleware.GetUserID(r.Context())).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Request failed")
		respondError(w, "Server error", http.StatusInternalServerError)
	}
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidCode):
		return "Invalid or expired invite code."
	case errors.Is(err, services.ErrAlreadyPaired):
		return "You are already in an active Duo."
	case errors.Is(err, services.ErrSelfJoin):
		return "You cannot join your own Duo."
	case errors.Is(err, services.ErrNotPaired):
		return "Not in a Duo."
	case errors.Is(err, services.ErrInvalidType):
		return "Invalid type. Must be water, meal, or smoke."
	case errors.Is(err, services.ErrDuoNotFound):
		return "Duo not found."
	case errors.Is(err, services.ErrUserNotFound):
		return "User not found."
	default:
		return err.Error()
	}
}
