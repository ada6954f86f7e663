package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 16 * 1024

// requestValidate checks decoded request bodies against their validate tags
var requestValidate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	IsSmoker bool   `json:"isSmoker"`
}

// PushTokenRequest is the body of PUT /api/users/push-token
type PushTokenRequest struct {
	PushToken string `json:"pushToken" validate:"required,max=512"`
}

// JoinDuoRequest is the body of POST /api/duo/join
type JoinDuoRequest struct {
	InviteCode string `json:"inviteCode" validate:"required"`
}

// UpdateStatsRequest is the body of POST /api/duo/update-stats
type UpdateStatsRequest struct {
	Water          *int `json:"water" validate:"omitempty,min=0,max=100000"`
	Meals          *int `json:"meals" validate:"omitempty,min=0,max=100000"`
	GoalsCompleted *int `json:"goalsCompleted" validate:"omitempty,min=0,max=100000"`
	GoalsTotal     *int `json:"goalsTotal" validate:"omitempty,min=0,max=100000"`
	Smokes         *int `json:"smokes" validate:"omitempty,min=0,max=100000"`
	Steps          *int `json:"steps" validate:"omitempty,min=0,max=100000"`
	Calories       *int `json:"calories" validate:"omitempty,min=0,max=100000"`
}

// LogSmokeRequest is the body of POST /api/duo/log-smoke
type LogSmokeRequest struct {
	Count *int `json:"count" validate:"omitempty,min=1,max=100000"`
}

// EncourageRequest is the body of POST /api/duo/encourage
type EncourageRequest struct {
	Message string `json:"message" validate:"max=280"`
}

// LogForPartnerRequest is the body of POST /api/duo/log-for-partner
type LogForPartnerRequest struct {
	Type  string `json:"type"`
	Value *int   `json:"value" validate:"omitempty,max=100000"`
}

// decodeRequest reads an optional JSON body into dst and validates it.
// An empty body leaves dst at its zero value.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return requestValidate.Struct(dst)
}

// validationMessage turns a validator error into a short client message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.Int {
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s is too long", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
