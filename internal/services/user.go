package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"navjivan-backend/internal/models"
	"navjivan-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 30

// UserStore is the persistence the services need for users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	SetDuoID(ctx context.Context, userID string, duoID *string) error
}

// UserService handles user-related business logic
type UserService struct {
	userRepo  UserStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// GenerateJWT generates a JWT token for a user. The id claim matches the
// tokens issued by the main auth service, so both are accepted here.
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("id not found in token")
	}

	return userID, nil
}

// CreateUser registers a user and returns it with a signed token
func (s *UserService) CreateUser(ctx context.Context, name string, isSmoker bool) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("name is required: %w", ErrInvalidInput)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		IsSmoker:  isSmoker,
		CreatedAt: time.Now().UTC(),
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return user, token, nil
}

// UpdatePushToken stores the device token partners' notifications go to
func (s *UserService) UpdatePushToken(ctx context.Context, userID, pushToken string) error {
	pushToken = strings.TrimSpace(pushToken)
	if pushToken == "" {
		return fmt.Errorf("push token is required: %w", ErrInvalidInput)
	}

	if err := s.userRepo.UpdatePushToken(ctx, userID, &pushToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
