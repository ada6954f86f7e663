package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"navjivan-backend/internal/middleware"
	"navjivan-backend/internal/models"
	"navjivan-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// DuoHandler handles duo-related HTTP requests
type DuoHandler struct {
	duoService *services.DuoService
}

// NewDuoHandler creates a new duo handler
func NewDuoHandler(duoService *services.DuoService) *DuoHandler {
	return &DuoHandler{
		duoService: duoService,
	}
}

// Routes mounts the duo endpoints. Callers wrap it in the auth middleware.
func (h *DuoHandler) Routes(r chi.Router) {
	r.Post("/create", h.Create)
	r.Post("/join", h.Join)
	r.Get("/status", h.Status)
	r.Post("/update-stats", h.UpdateStats)
	r.Post("/log-smoke", h.LogSmoke)
	r.Post("/encourage", h.Encourage)
	r.Post("/leave", h.Leave)
	r.Get("/partner-dashboard", h.PartnerDashboard)
	r.Post("/log-for-partner", h.LogForPartner)
}

// CreateDuoResponse is the response of POST /api/duo/create
type CreateDuoResponse struct {
	Success    bool             `json:"success"`
	InviteCode string           `json:"inviteCode"`
	DuoID      string           `json:"duoId"`
	Status     models.DuoStatus `json:"status"`
}

// JoinDuoResponse is the response of POST /api/duo/join
type JoinDuoResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	DuoID   string                  `json:"duoId"`
	Partner services.PartnerSummary `json:"partner"`
}

// StatusResponse is the response of GET /api/duo/status
type StatusResponse struct {
	Success     bool                     `json:"success"`
	HasDuo      bool                     `json:"hasDuo"`
	Status      models.DuoStatus         `json:"status,omitempty"`
	InviteCode  string                   `json:"inviteCode,omitempty"`
	MyRole      models.Role              `json:"myRole,omitempty"`
	Partner     *services.PartnerSummary `json:"partner,omitempty"`
	SharedPlant *models.SharedPlant      `json:"sharedPlant,omitempty"`
	PlantStage  *int                     `json:"plantStage,omitempty"`
}

// PlantResponse is returned by every counter mutation
type PlantResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	SharedPlant models.SharedPlant `json:"sharedPlant"`
	PlantStage  int                `json:"plantStage"`
}

// DashboardPartner is the partner block of the dashboard
type DashboardPartner struct {
	services.PartnerSummary
	Stats models.Counters `json:"stats"`
}

// DashboardResponse is the response of GET /api/duo/partner-dashboard
type DashboardResponse struct {
	Success     bool                `json:"success"`
	HasDuo      bool                `json:"hasDuo"`
	Status      models.DuoStatus    `json:"status,omitempty"`
	Partner     *DashboardPartner   `json:"partner,omitempty"`
	MyStats     *models.Counters    `json:"myStats,omitempty"`
	PlantStage  *int                `json:"plantStage,omitempty"`
	SharedPlant *models.SharedPlant `json:"sharedPlant,omitempty"`
}

// Create handles POST /api/duo/create
func (h *DuoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	res, err := h.duoService.Create(ctx, userID)
	if err != nil {
		respondServiceError(w, r, "create", err)
		return
	}

	statusCode := http.StatusOK
	if res.Created {
		statusCode = http.StatusCreated
	}
	respondJSON(w, statusCode, CreateDuoResponse{
		Success:    true,
		InviteCode: res.InviteCode,
		DuoID:      res.DuoID,
		Status:     res.Status,
	})
}

// Join handles POST /api/duo/join
func (h *DuoHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req JoinDuoRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, "Invalid invite code.", http.StatusBadRequest)
		return
	}
	if len(services.NormalizeInviteCode(req.InviteCode)) != services.InviteCodeLength {
		respondError(w, "Invalid invite code.", http.StatusBadRequest)
		return
	}

	res, err := h.duoService.Join(ctx, userID, req.InviteCode)
	if err != nil {
		// a well-formed code that matches nothing is reported as missing
		if errors.Is(err, services.ErrInvalidCode) {
			respondError(w, clientMessage(err), http.StatusNotFound)
			return
		}
		respondServiceError(w, r, "join", err)
		return
	}

	respondJSON(w, http.StatusOK, JoinDuoResponse{
		Success: true,
		Message: "Duo activated!",
		DuoID:   res.DuoID,
		Partner: res.Partner,
	})
}

// Status handles GET /api/duo/status
func (h *DuoHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	view, err := h.duoService.GetStatus(ctx, userID)
	if err != nil {
		respondServiceError(w, r, "status", err)
		return
	}

	if !view.HasDuo {
		respondJSON(w, http.StatusOK, StatusResponse{Success: true})
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{
		Success:     true,
		HasDuo:      true,
		Status:      view.Status,
		InviteCode:  view.InviteCode,
		MyRole:      view.MyRole,
		Partner:     view.Partner,
		SharedPlant: &view.SharedPlant,
		PlantStage:  &view.PlantStage,
	})
}

// UpdateStats handles POST /api/duo/update-stats
func (h *DuoHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateStatsRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	state, err := h.duoService.UpdateStats(ctx, userID, services.StatsUpdate{
		Water:          req.Water,
		Meals:          req.Meals,
		GoalsCompleted: req.GoalsCompleted,
		GoalsTotal:     req.GoalsTotal,
		Smokes:         req.Smokes,
		Steps:          req.Steps,
		Calories:       req.Calories,
	})
	if err != nil {
		respondServiceError(w, r, "update_stats", err)
		return
	}

	respondJSON(w, http.StatusOK, PlantResponse{
		Success:     true,
		SharedPlant: state.SharedPlant,
		PlantStage:  state.PlantStage,
	})
}

// LogSmoke handles POST /api/duo/log-smoke
func (h *DuoHandler) LogSmoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req LogSmokeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	state, err := h.duoService.LogSmoke(ctx, userID, count)
	if err != nil {
		respondServiceError(w, r, "log_smoke", err)
		return
	}

	respondJSON(w, http.StatusOK, PlantResponse{
		Success:     true,
		SharedPlant: state.SharedPlant,
		PlantStage:  state.PlantStage,
	})
}

// Encourage handles POST /api/duo/encourage
func (h *DuoHandler) Encourage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req EncourageRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.duoService.SendEncouragement(ctx, userID, req.Message); err != nil {
		respondServiceError(w, r, "encourage", err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Encouragement sent!"})
}

// Leave handles POST /api/duo/leave
func (h *DuoHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.duoService.Leave(ctx, userID); err != nil {
		respondServiceError(w, r, "leave", err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Duo ended."})
}

// PartnerDashboard handles GET /api/duo/partner-dashboard
func (h *DuoHandler) PartnerDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	view, err := h.duoService.PartnerDashboard(ctx, userID)
	if err != nil {
		respondServiceError(w, r, "dashboard", err)
		return
	}

	if !view.HasDuo {
		respondJSON(w, http.StatusOK, DashboardResponse{Success: true})
		return
	}

	resp := DashboardResponse{
		Success:     true,
		HasDuo:      true,
		Status:      view.Status,
		MyStats:     &view.MyStats,
		PlantStage:  &view.PlantStage,
		SharedPlant: &view.SharedPlant,
	}
	if view.Partner != nil {
		resp.Partner = &DashboardPartner{PartnerSummary: *view.Partner, Stats: view.PartnerStats}
	}
	respondJSON(w, http.StatusOK, resp)
}

// LogForPartner handles POST /api/duo/log-for-partner
func (h *DuoHandler) LogForPartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req LogForPartnerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	value := 1
	if req.Value != nil {
		value = *req.Value
	}

	state, err := h.duoService.LogForPartner(ctx, userID, req.Type, value)
	if err != nil {
		respondServiceError(w, r, "log_for_partner", err)
		return
	}

	respondJSON(w, http.StatusOK, PlantResponse{
		Success:     true,
		Message:     fmt.Sprintf("%s logged for partner!", capitalize(req.Type)),
		SharedPlant: state.SharedPlant,
		PlantStage:  state.PlantStage,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
