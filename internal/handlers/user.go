package handlers

import (
	"net/http"

	"navjivan-backend/internal/middleware"
	"navjivan-backend/internal/models"
	"navjivan-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserResponse is the response of POST /api/users
type CreateUserResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.CreateUser(ctx, req.Name, req.IsSmoker)
	if err != nil {
		respondServiceError(w, r, "create_user", err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Bool("is_smoker", user.IsSmoker).
		Msg("User created")

	respondJSON(w, http.StatusCreated, CreateUserResponse{Success: true, User: user, Token: token})
}

// UpdatePushToken handles PUT /api/users/push-token
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PushTokenRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		respondServiceError(w, r, "push_token", err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Push token updated")

	respondJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Push token updated"})
}
