package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"navjivan-backend/internal/models"
	"navjivan-backend/internal/notify"
	"navjivan-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxWriteAttempts bounds how often a read-reset-mutate-write cycle is
// retried when the partner wrote the same duo in between
const maxWriteAttempts = 5

// MaxCounter is the largest value any daily counter may hold
const MaxCounter = 100000

// Log types accepted by LogForPartner
const (
	LogTypeWater = "water"
	LogTypeMeal  = "meal"
	LogTypeSmoke = "smoke"
)

// DuoStore is the persistence the duo service needs.
// Update must fail with repository.ErrVersionConflict when duo.Version is stale.
type DuoStore interface {
	Create(ctx context.Context, duo *models.Duo) error
	GetByID(ctx context.Context, id string) (*models.Duo, error)
	FindPendingByInviteCode(ctx context.Context, code string) (*models.Duo, error)
	InviteCodeInUse(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, duo *models.Duo) error
}

// PushDispatcher hands notifications off for background delivery
type PushDispatcher interface {
	Dispatch(ctx context.Context, token string, msg notify.Message) *notify.Delivery
}

// PartnerSummary is what a user sees about their partner
type PartnerSummary struct {
	Name     string `json:"name"`
	IsSmoker bool   `json:"isSmoker"`
	Streak   int    `json:"streak"`
}

// CreateResult is returned by Create
type CreateResult struct {
	DuoID      string
	InviteCode string
	Status     models.DuoStatus
	// Created is false when an existing pending invite was returned
	Created bool
}

// JoinResult is returned by Join
type JoinResult struct {
	DuoID   string
	Partner PartnerSummary
}

// PlantState is the shared plant after a mutation
type PlantState struct {
	SharedPlant models.SharedPlant
	PlantStage  int
}

// StatusView is returned by GetStatus
type StatusView struct {
	HasDuo      bool
	Status      models.DuoStatus
	InviteCode  string
	MyRole      models.Role
	Partner     *PartnerSummary
	SharedPlant models.SharedPlant
	PlantStage  int
}

// DashboardView is returned by PartnerDashboard
type DashboardView struct {
	HasDuo       bool
	Status       models.DuoStatus
	Partner      *PartnerSummary
	PartnerStats models.Counters
	MyStats      models.Counters
	SharedPlant  models.SharedPlant
	PlantStage   int
}

// StatsUpdate carries the counters a client reports for its own side.
// Nil fields are left untouched.
type StatsUpdate struct {
	Water          *int
	Meals          *int
	GoalsCompleted *int
	GoalsTotal     *int
	Smokes         *int
	Steps          *int
	Calories       *int
}

// DuoService coordinates pairing and the shared plant
type DuoService struct {
	duos       DuoStore
	users      UserStore
	push       PushDispatcher
	encourager Encourager
	now        func() time.Time
	newCode    func() string
}

// NewDuoService creates a new duo service. encourager may be nil.
func NewDuoService(duos DuoStore, users UserStore, push PushDispatcher, encourager Encourager) *DuoService {
	return &DuoService{
		duos:       duos,
		users:      users,
		push:       push,
		encourager: encourager,
		now:        time.Now,
		newCode:    GenerateInviteCode,
	}
}

// Create starts a pending duo owned by userID, or returns the invite code of
// the pending duo the user already has
func (s *DuoService) Create(ctx context.Context, userID string) (res *CreateResult, err error) {
	ctx, end := observe(ctx, "create", userID)
	defer func() { end(err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.DuoID != nil {
		existing, err := s.duos.GetByID(ctx, *user.DuoID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("failed to get duo: %w", err)
		case existing.Status == models.DuoStatusActive:
			return nil, ErrAlreadyPaired
		case existing.Status == models.DuoStatusPending:
			return &CreateResult{
				DuoID:      existing.ID,
				InviteCode: existing.InviteCode,
				Status:     existing.Status,
			}, nil
		}
	}

	for i := 0; i < maxInviteCodeAttempts; i++ {
		code := s.newCode()
		inUse, err := s.duos.InviteCodeInUse(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check invite code: %w", err)
		}
		if inUse {
			continue
		}

		now := s.now().UTC()
		duo := &models.Duo{
			ID:         uuid.New().String(),
			UserA:      userID,
			InviteCode: code,
			Status:     models.DuoStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.duos.Create(ctx, duo); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, fmt.Errorf("failed to create duo: %w", err)
		}

		if err := s.users.SetDuoID(ctx, userID, &duo.ID); err != nil {
			return nil, fmt.Errorf("failed to link user to duo: %w", err)
		}

		log.Info().
			Str("user_id", userID).
			Str("duo_id", duo.ID).
			Str("invite_code", code).
			Msg("Duo created")

		return &CreateResult{
			DuoID:      duo.ID,
			InviteCode: code,
			Status:     duo.Status,
			Created:    true,
		}, nil
	}

	return nil, ErrInviteCodeExhausted
}

// Join activates the pending duo holding code with userID as partner B
func (s *DuoService) Join(ctx context.Context, userID, code string) (res *JoinResult, err error) {
	ctx, end := observe(ctx, "join", userID)
	defer func() { end(err) }()

	code = NormalizeInviteCode(code)
	if len(code) != InviteCodeLength {
		return nil, ErrInvalidCode
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ownPending *models.Duo
	if user.DuoID != nil {
		existing, err := s.duos.GetByID(ctx, *user.DuoID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("failed to get duo: %w", err)
		case existing.Status == models.DuoStatusActive:
			return nil, ErrAlreadyPaired
		case existing.Status == models.DuoStatusPending:
			ownPending = existing
		}
	}

	var duo *models.Duo
	for attempt := 0; ; attempt++ {
		if attempt == maxWriteAttempts {
			return nil, fmt.Errorf("failed to join duo: %w", repository.ErrVersionConflict)
		}

		duo, err = s.duos.FindPendingByInviteCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidCode
			}
			return nil, fmt.Errorf("failed to find duo: %w", err)
		}
		if duo.UserA == userID {
			return nil, ErrSelfJoin
		}

		joiner := userID
		today := Today(s.now())
		duo.UserB = &joiner
		duo.Status = models.DuoStatusActive
		duo.SharedPlant.LastResetDate = &today

		err = s.duos.Update(ctx, duo)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to activate duo: %w", err)
		}
		break
	}

	if err := s.users.SetDuoID(ctx, userID, &duo.ID); err != nil {
		s.reopen(ctx, duo)
		return nil, fmt.Errorf("failed to link user to duo: %w", err)
	}

	// a user holds at most one live duo, so their own open invite goes away
	if ownPending != nil {
		s.endPending(ctx, ownPending)
	}

	partner, err := s.users.GetByID(ctx, duo.UserA)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	s.notifyUser(ctx, partner, notify.Message{
		Title: "🤝 Duo Activated!",
		Body:  fmt.Sprintf("%s joined your Duo! Your shared plant is ready to grow.", user.Name),
		Data:  map[string]any{"type": "duo_joined"},
	})

	log.Info().
		Str("user_id", userID).
		Str("partner_id", partner.ID).
		Str("duo_id", duo.ID).
		Msg("Duo joined")

	return &JoinResult{DuoID: duo.ID, Partner: summarize(partner)}, nil
}

// GetStatus reports the requester's duo, resetting the day if needed
func (s *DuoService) GetStatus(ctx context.Context, userID string) (view *StatusView, err error) {
	ctx, end := observe(ctx, "status", userID)
	defer func() { end(err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.DuoID == nil {
		return &StatusView{}, nil
	}

	duo, err := s.loadFresh(ctx, *user.DuoID)
	if err != nil {
		return nil, err
	}
	if duo == nil || duo.Status == models.DuoStatusEnded {
		return &StatusView{}, nil
	}

	role, ok := duo.RoleOf(userID)
	if !ok {
		return &StatusView{}, nil
	}

	return &StatusView{
		HasDuo:      true,
		Status:      duo.Status,
		InviteCode:  duo.InviteCode,
		MyRole:      role,
		Partner:     s.partnerSummary(ctx, duo, role),
		SharedPlant: duo.SharedPlant,
		PlantStage:  PlantStage(duo.SharedPlant),
	}, nil
}

// PartnerDashboard splits today's counters into the requester's and the partner's
func (s *DuoService) PartnerDashboard(ctx context.Context, userID string) (view *DashboardView, err error) {
	ctx, end := observe(ctx, "dashboard", userID)
	defer func() { end(err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.DuoID == nil {
		return &DashboardView{}, nil
	}

	duo, err := s.loadFresh(ctx, *user.DuoID)
	if err != nil {
		return nil, err
	}
	if duo == nil || duo.Status != models.DuoStatusActive {
		return &DashboardView{}, nil
	}

	role, ok := duo.RoleOf(userID)
	if !ok {
		return &DashboardView{}, nil
	}

	return &DashboardView{
		HasDuo:       true,
		Status:       duo.Status,
		Partner:      s.partnerSummary(ctx, duo, role),
		PartnerStats: *duo.SharedPlant.Side(role.Other()),
		MyStats:      *duo.SharedPlant.Side(role),
		SharedPlant:  duo.SharedPlant,
		PlantStage:   PlantStage(duo.SharedPlant),
	}, nil
}

// UpdateStats overwrites the requester's own counters with the values given
func (s *DuoService) UpdateStats(ctx context.Context, userID string, update StatsUpdate) (state *PlantState, err error) {
	ctx, end := observe(ctx, "update_stats", userID)
	defer func() { end(err) }()

	for _, v := range []*int{update.Water, update.Meals, update.GoalsCompleted, update.GoalsTotal, update.Smokes, update.Steps, update.Calories} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("counters must not be negative: %w", ErrInvalidInput)
		}
		if v != nil && *v > MaxCounter {
			return nil, fmt.Errorf("counters must be at most %d: %w", MaxCounter, ErrInvalidInput)
		}
	}

	_, duo, _, err := s.mutateActive(ctx, userID, func(duo *models.Duo, role models.Role) {
		side := duo.SharedPlant.Side(role)
		setIfPresent(&side.Water, update.Water)
		setIfPresent(&side.Meals, update.Meals)
		setIfPresent(&side.GoalsCompleted, update.GoalsCompleted)
		setIfPresent(&side.GoalsTotal, update.GoalsTotal)
		setIfPresent(&side.Smokes, update.Smokes)
		setIfPresent(&side.Steps, update.Steps)
		setIfPresent(&side.Calories, update.Calories)
	})
	if err != nil {
		return nil, err
	}

	return plantState(duo), nil
}

// LogSmoke adds count smokes to the requester's side and alerts the partner
func (s *DuoService) LogSmoke(ctx context.Context, userID string, count int) (state *PlantState, err error) {
	ctx, end := observe(ctx, "log_smoke", userID)
	defer func() { end(err) }()

	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1: %w", ErrInvalidInput)
	}
	if count > MaxCounter {
		return nil, fmt.Errorf("count must be at most %d: %w", MaxCounter, ErrInvalidInput)
	}

	user, duo, role, err := s.mutateActive(ctx, userID, func(duo *models.Duo, role models.Role) {
		addCapped(&duo.SharedPlant.Side(role).Smokes, count)
	})
	if err != nil {
		return nil, err
	}

	total := duo.SharedPlant.Side(role).Smokes
	s.notifyMember(ctx, duo, role.Other(), notify.Message{
		Title: "🚬 Smoke Alert",
		Body:  fmt.Sprintf("%s smoked (%d today). Your shared plant is hurting. Send support!", user.Name, total),
		Data:  map[string]any{"type": "duo_smoke_alert", "smokes": total},
	})

	log.Info().
		Str("user_id", userID).
		Str("duo_id", duo.ID).
		Int("count", count).
		Int("total", total).
		Msg("Smoke logged")

	return plantState(duo), nil
}

// LogForPartner adds value to one of the partner's counters on their behalf
func (s *DuoService) LogForPartner(ctx context.Context, userID, logType string, value int) (state *PlantState, err error) {
	ctx, end := observe(ctx, "log_for_partner", userID)
	defer func() { end(err) }()

	var msg notify.Message
	switch logType {
	case LogTypeWater:
		msg = notify.Message{Title: "📝 Activity Logged", Body: "💧 %s logged water for you! Stay hydrated! 🌱"}
	case LogTypeMeal:
		msg = notify.Message{Title: "📝 Activity Logged", Body: "🍽️ %s logged a meal for you! Great nutrition! 🌱"}
	case LogTypeSmoke:
		msg = notify.Message{Title: "🚬 Smoke Logged", Body: "🚬 %s logged a smoke for you. Your plant is hurting. 😔"}
	default:
		return nil, ErrInvalidType
	}
	if value < 1 {
		value = 1
	}
	if value > MaxCounter {
		return nil, fmt.Errorf("value must be at most %d: %w", MaxCounter, ErrInvalidInput)
	}

	user, duo, role, err := s.mutateActive(ctx, userID, func(duo *models.Duo, role models.Role) {
		side := duo.SharedPlant.Side(role.Other())
		switch logType {
		case LogTypeWater:
			addCapped(&side.Water, value)
		case LogTypeMeal:
			addCapped(&side.Meals, value)
		case LogTypeSmoke:
			addCapped(&side.Smokes, value)
		}
	})
	if err != nil {
		return nil, err
	}

	msg.Body = fmt.Sprintf(msg.Body, user.Name)
	msg.Data = map[string]any{"type": "duo_partner_log", "logType": logType}
	s.notifyMember(ctx, duo, role.Other(), msg)

	log.Info().
		Str("user_id", userID).
		Str("duo_id", duo.ID).
		Str("log_type", logType).
		Int("value", value).
		Msg("Logged for partner")

	return plantState(duo), nil
}

// SendEncouragement pushes a supportive message to the partner
func (s *DuoService) SendEncouragement(ctx context.Context, userID, message string) (err error) {
	ctx, end := observe(ctx, "encourage", userID)
	defer func() { end(err) }()

	user, duo, role, err := s.loadActive(ctx, userID)
	if err != nil {
		return err
	}

	partner := s.member(ctx, duo, role.Other())
	if partner == nil || partner.PushToken == nil || *partner.PushToken == "" {
		return nil
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = s.generateEncouragement(ctx, user, partner)
	}

	s.notifyUser(ctx, partner, notify.Message{
		Title: fmt.Sprintf("💪 %s says:", user.Name),
		Body:  message,
		Data:  map[string]any{"type": "duo_encouragement"},
	})

	return nil
}

// Leave ends the requester's duo and releases both partners
func (s *DuoService) Leave(ctx context.Context, userID string) (err error) {
	ctx, end := observe(ctx, "leave", userID)
	defer func() { end(err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.DuoID == nil {
		return ErrNotPaired
	}

	var duo *models.Duo
	for attempt := 0; ; attempt++ {
		if attempt == maxWriteAttempts {
			return fmt.Errorf("failed to end duo: %w", repository.ErrVersionConflict)
		}

		duo, err = s.duos.GetByID(ctx, *user.DuoID)
		if errors.Is(err, repository.ErrNotFound) {
			// drop the dangling reference so the user can pair again
			if err := s.users.SetDuoID(ctx, userID, nil); err != nil {
				return fmt.Errorf("failed to unlink user: %w", err)
			}
			return ErrDuoNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get duo: %w", err)
		}
		if duo.Status == models.DuoStatusEnded {
			break
		}

		duo.Status = models.DuoStatusEnded
		err = s.duos.Update(ctx, duo)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to end duo: %w", err)
		}
		break
	}

	if err := s.users.SetDuoID(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to unlink user: %w", err)
	}

	var partner *models.User
	if role, ok := duo.RoleOf(userID); ok {
		partner = s.member(ctx, duo, role.Other())
	}
	if partner != nil && partner.DuoID != nil && *partner.DuoID == duo.ID {
		if err := s.users.SetDuoID(ctx, partner.ID, nil); err != nil {
			return fmt.Errorf("failed to unlink partner: %w", err)
		}
	}

	s.notifyUser(ctx, partner, notify.Message{
		Title: "😢 Duo Ended",
		Body:  fmt.Sprintf("%s left the Duo.", user.Name),
		Data:  map[string]any{"type": "duo_left"},
	})

	log.Info().
		Str("user_id", userID).
		Str("duo_id", duo.ID).
		Str("invite_code", duo.InviteCode).
		Msg("Duo ended")

	return nil
}

// mutateActive runs the read, daily reset, fn, versioned write cycle on the
// requester's active duo, starting over from a fresh read when the partner
// wrote in between
func (s *DuoService) mutateActive(ctx context.Context, userID string, fn func(duo *models.Duo, role models.Role)) (*models.User, *models.Duo, models.Role, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		user, duo, role, err := s.loadActive(ctx, userID)
		if err != nil {
			return nil, nil, "", err
		}

		ResetIfNewDay(&duo.SharedPlant, Today(s.now()))
		fn(duo, role)

		err = s.duos.Update(ctx, duo)
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Debug().
				Str("duo_id", duo.ID).
				Int("attempt", attempt+1).
				Msg("Duo changed concurrently, retrying")
			continue
		}
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to save duo: %w", err)
		}
		return user, duo, role, nil
	}
	return nil, nil, "", fmt.Errorf("failed to save duo after %d attempts: %w", maxWriteAttempts, repository.ErrVersionConflict)
}

// loadActive returns the requester and their active duo
func (s *DuoService) loadActive(ctx context.Context, userID string) (*models.User, *models.Duo, models.Role, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, nil, "", err
	}
	if user.DuoID == nil {
		return nil, nil, "", ErrNotPaired
	}

	duo, err := s.duos.GetByID(ctx, *user.DuoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, "", ErrNotPaired
		}
		return nil, nil, "", fmt.Errorf("failed to get duo: %w", err)
	}
	if duo.Status != models.DuoStatusActive {
		return nil, nil, "", ErrNotPaired
	}

	role, ok := duo.RoleOf(userID)
	if !ok {
		return nil, nil, "", ErrNotPaired
	}
	return user, duo, role, nil
}

// loadFresh reads a duo for display and persists the daily reset if one was
// due. A missing duo yields nil without error.
func (s *DuoService) loadFresh(ctx context.Context, duoID string) (*models.Duo, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		duo, err := s.duos.GetByID(ctx, duoID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get duo: %w", err)
		}
		if duo.Status == models.DuoStatusEnded {
			return duo, nil
		}
		if !ResetIfNewDay(&duo.SharedPlant, Today(s.now())) {
			return duo, nil
		}

		err = s.duos.Update(ctx, duo)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save daily reset: %w", err)
		}
		return duo, nil
	}
	return nil, fmt.Errorf("failed to save daily reset: %w", repository.ErrVersionConflict)
}

// reopen puts a duo whose activation could not be completed back on offer
func (s *DuoService) reopen(ctx context.Context, duo *models.Duo) {
	duo.UserB = nil
	duo.Status = models.DuoStatusPending
	duo.SharedPlant.LastResetDate = nil
	if err := s.duos.Update(ctx, duo); err != nil {
		log.Error().
			Err(err).
			Str("duo_id", duo.ID).
			Msg("Failed to reopen duo after join error")
	}
}

// endPending closes an invite that was superseded by joining another duo
func (s *DuoService) endPending(ctx context.Context, duo *models.Duo) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if attempt > 0 {
			fresh, err := s.duos.GetByID(ctx, duo.ID)
			if err != nil {
				break
			}
			duo = fresh
		}
		if duo.Status != models.DuoStatusPending {
			return
		}
		duo.Status = models.DuoStatusEnded
		err := s.duos.Update(ctx, duo)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			break
		}
		return
	}
	log.Warn().Str("duo_id", duo.ID).Msg("Failed to end superseded invite")
}

func (s *DuoService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// member loads the user holding role, or nil if the seat is empty or the
// lookup failed
func (s *DuoService) member(ctx context.Context, duo *models.Duo, role models.Role) *models.User {
	id := duo.MemberID(role)
	if id == "" {
		return nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		log.Error().
			Err(err).
			Str("duo_id", duo.ID).
			Str("user_id", id).
			Msg("Failed to load duo member")
		return nil
	}
	return user
}

func (s *DuoService) partnerSummary(ctx context.Context, duo *models.Duo, role models.Role) *PartnerSummary {
	partner := s.member(ctx, duo, role.Other())
	if partner == nil {
		return nil
	}
	summary := summarize(partner)
	return &summary
}

func (s *DuoService) notifyMember(ctx context.Context, duo *models.Duo, role models.Role, msg notify.Message) {
	s.notifyUser(ctx, s.member(ctx, duo, role), msg)
}

// notifyUser hands msg to the dispatcher. The delivery handle is dropped on
// purpose: the dispatcher logs failures and the request never waits on them.
func (s *DuoService) notifyUser(ctx context.Context, user *models.User, msg notify.Message) {
	if user == nil || user.PushToken == nil || *user.PushToken == "" {
		return
	}
	_ = s.push.Dispatch(ctx, *user.PushToken, msg)
}

func (s *DuoService) generateEncouragement(ctx context.Context, sender, partner *models.User) string {
	if s.encourager == nil || partner == nil {
		return DefaultEncouragement
	}
	text, err := s.encourager.Encouragement(ctx, sender.Name, partner.Name, partner.IsSmoker)
	if err != nil {
		log.Warn().Err(err).Str("user_id", sender.ID).Msg("Falling back to default encouragement")
		return DefaultEncouragement
	}
	return text
}

func summarize(u *models.User) PartnerSummary {
	return PartnerSummary{Name: u.Name, IsSmoker: u.IsSmoker, Streak: u.Streak}
}

func plantState(duo *models.Duo) *PlantState {
	return &PlantState{SharedPlant: duo.SharedPlant, PlantStage: PlantStage(duo.SharedPlant)}
}

// addCapped adds n to *dst, saturating at MaxCounter
func addCapped(dst *int, n int) {
	if n >= MaxCounter-*dst {
		*dst = MaxCounter
		return
	}
	*dst += n
}

func setIfPresent(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
