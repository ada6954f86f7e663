package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"navjivan-backend/internal/middleware"
	"navjivan-backend/internal/notify"
	"navjivan-backend/internal/repository"
	"navjivan-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDispatcher struct {
	mu     sync.Mutex
	titles []string
}

func (d *nopDispatcher) Dispatch(ctx context.Context, token string, msg notify.Message) *notify.Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.titles = append(d.titles, msg.Title)
	return nil
}

type testAPI struct {
	router http.Handler
	users  *services.UserService
	push   *nopDispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	userStore := repository.NewMemoryUserStore()
	push := &nopDispatcher{}
	userService := services.NewUserService(userStore, "handler-secret")
	duoService := services.NewDuoService(repository.NewMemoryDuoStore(), userStore, push, nil)

	userHandler := NewUserHandler(userService)
	duoHandler := NewDuoHandler(duoService)

	r := chi.NewRouter()
	r.Post("/api/users", userHandler.CreateUser)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(userService))
		r.Put("/api/users/push-token", userHandler.UpdatePushToken)
		r.Route("/api/duo", duoHandler.Routes)
	})

	return &testAPI{router: r, users: userService, push: push}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func (a *testAPI) register(t *testing.T, name string, smoker bool) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/users", "", map[string]any{"name": name, "isSmoker": smoker})
	require.Equal(t, http.StatusCreated, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, _ = a.do(t, http.MethodPut, "/api/users/push-token", token, map[string]any{"pushToken": "ExponentPushToken[" + name + "]"})
	require.Equal(t, http.StatusOK, code)
	return token
}

func TestDuoFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	asha := api.register(t, "Asha", true)
	ravi := api.register(t, "Ravi", false)

	code, body := api.do(t, http.MethodPost, "/api/duo/create", asha, nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pending", body["status"])
	invite := body["inviteCode"].(string)

	code, again := api.do(t, http.MethodPost, "/api/duo/create", asha, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, invite, again["inviteCode"])

	code, body = api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": strings.ToLower(invite)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Duo activated!", body["message"])
	partner := body["partner"].(map[string]any)
	assert.Equal(t, "Asha", partner["name"])
	assert.Equal(t, true, partner["isSmoker"])

	code, body = api.do(t, http.MethodGet, "/api/duo/status", ravi, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["hasDuo"])
	assert.Equal(t, "B", body["myRole"])
	plant := body["sharedPlant"].(map[string]any)
	assert.Contains(t, plant, "waterA")
	assert.Contains(t, plant, "lastResetDate")
	assert.EqualValues(t, 0, body["plantStage"])

	code, body = api.do(t, http.MethodPost, "/api/duo/update-stats", asha, map[string]any{"water": 8, "meals": 3})
	require.Equal(t, http.StatusOK, code)
	plant = body["sharedPlant"].(map[string]any)
	assert.EqualValues(t, 8, plant["waterA"])
	assert.EqualValues(t, 3, plant["mealsA"])
	// 16 + 15 points
	assert.EqualValues(t, 2, body["plantStage"])

	code, body = api.do(t, http.MethodPost, "/api/duo/log-smoke", asha, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["sharedPlant"].(map[string]any)["smokesA"])

	code, body = api.do(t, http.MethodPost, "/api/duo/log-for-partner", ravi, map[string]any{"type": "water", "value": 2})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Water logged for partner!", body["message"])
	assert.EqualValues(t, 10, body["sharedPlant"].(map[string]any)["waterA"])

	code, body = api.do(t, http.MethodPost, "/api/duo/encourage", ravi, map[string]any{})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Encouragement sent!", body["message"])

	code, body = api.do(t, http.MethodGet, "/api/duo/partner-dashboard", ravi, nil)
	require.Equal(t, http.StatusOK, code)
	dashPartner := body["partner"].(map[string]any)
	assert.Equal(t, "Asha", dashPartner["name"])
	assert.EqualValues(t, 10, dashPartner["stats"].(map[string]any)["water"])
	assert.EqualValues(t, 0, body["myStats"].(map[string]any)["water"])

	code, body = api.do(t, http.MethodPost, "/api/duo/leave", ravi, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Duo ended.", body["message"])

	code, body = api.do(t, http.MethodPost, "/api/duo/leave", ravi, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not in a Duo.", body["message"])

	code, body = api.do(t, http.MethodGet, "/api/duo/status", asha, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["hasDuo"])
	assert.NotContains(t, body, "sharedPlant")

	api.push.mu.Lock()
	defer api.push.mu.Unlock()
	assert.Equal(t, []string{"🤝 Duo Activated!", "🚬 Smoke Alert", "📝 Activity Logged", "💪 Ravi says:", "😢 Duo Ended"}, api.push.titles)
}

func TestJoinErrorsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	asha := api.register(t, "Asha", false)
	ravi := api.register(t, "Ravi", false)

	code, body := api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": "ABC"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid invite code.", body["message"])

	code, body = api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": "ZZZZZZ"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Invalid or expired invite code.", body["message"])

	_, body = api.do(t, http.MethodPost, "/api/duo/create", asha, nil)
	invite := body["inviteCode"].(string)

	code, body = api.do(t, http.MethodPost, "/api/duo/join", asha, map[string]any{"inviteCode": invite})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You cannot join your own Duo.", body["message"])
}

func TestJoinNormalizesInviteCodeOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	asha := api.register(t, "Asha", false)
	ravi := api.register(t, "Ravi", false)

	for _, typed := range []string{"XYZ12 ", "  ", "ABCDEFG"} {
		code, body := api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": typed})
		assert.Equal(t, http.StatusBadRequest, code, typed)
		assert.Equal(t, "Invalid invite code.", body["message"], typed)
	}

	_, body := api.do(t, http.MethodPost, "/api/duo/create", asha, nil)
	invite := body["inviteCode"].(string)

	code, body := api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": " " + strings.ToLower(invite)})
	require.Equal(t, http.StatusOK, code, body["message"])
	assert.Equal(t, "Duo activated!", body["message"])
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	asha := api.register(t, "Asha", true)
	ravi := api.register(t, "Ravi", false)
	_, body := api.do(t, http.MethodPost, "/api/duo/create", asha, nil)
	code, _ := api.do(t, http.MethodPost, "/api/duo/join", ravi, map[string]any{"inviteCode": body["inviteCode"]})
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name    string
		path    string
		body    any
		message string
	}{
		{name: "negative counter", path: "/api/duo/update-stats", body: map[string]any{"water": -1}, message: "water must be at least 0"},
		{name: "zero smokes", path: "/api/duo/log-smoke", body: map[string]any{"count": 0}, message: "count must be at least 1"},
		{name: "counter too large", path: "/api/duo/update-stats", body: map[string]any{"water": 1 << 40}, message: "water must be at most 100000"},
		{name: "too many smokes", path: "/api/duo/log-smoke", body: map[string]any{"count": 100001}, message: "count must be at most 100000"},
		{name: "partner value too large", path: "/api/duo/log-for-partner", body: map[string]any{"type": "smoke", "value": 922337203685477581}, message: "value must be at most 100000"},
		{name: "unknown type", path: "/api/duo/log-for-partner", body: map[string]any{"type": "coffee"}, message: "Invalid type. Must be water, meal, or smoke."},
		{name: "missing type", path: "/api/duo/log-for-partner", body: map[string]any{}, message: "Invalid type. Must be water, meal, or smoke."},
		{name: "bad json", path: "/api/duo/update-stats", body: "not an object", message: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := api.do(t, http.MethodPost, tt.path, asha, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestNotPairedOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	asha := api.register(t, "Asha", false)

	for _, path := range []string{"/api/duo/log-smoke", "/api/duo/encourage", "/api/duo/leave"} {
		code, body := api.do(t, http.MethodPost, path, asha, nil)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.Equal(t, "Not in a Duo.", body["message"], path)
	}

	code, body := api.do(t, http.MethodGet, "/api/duo/partner-dashboard", asha, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["hasDuo"])

	code, body = api.do(t, http.MethodGet, "/api/duo/status", asha, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["hasDuo"])
	assert.NotContains(t, body, "partner")
	assert.NotContains(t, body, "sharedPlant")
}

func TestUnknownUserToken(t *testing.T) {
	api := newTestAPI(t)
	token, err := api.users.GenerateJWT("ghost")
	require.NoError(t, err)

	code, body := api.do(t, http.MethodGet, "/api/duo/status", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found.", body["message"])
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodPost, "/api/users", "", map[string]any{"isSmoker": true})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", body["message"])

	code, _ = api.do(t, http.MethodGet, "/api/duo/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
