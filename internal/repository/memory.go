package repository

import (
	"context"
	"sync"
	"time"

	"navjivan-backend/internal/models"
)

// MemoryDuoStore keeps duos in process memory. It mirrors DuoRepository,
// including the version check on Update, and is used by database.driver=memory
// and by tests.
type MemoryDuoStore struct {
	mu   sync.RWMutex
	duos map[string]models.Duo
}

// NewMemoryDuoStore creates an empty in-memory duo store
func NewMemoryDuoStore() *MemoryDuoStore {
	return &MemoryDuoStore{duos: make(map[string]models.Duo)}
}

func (s *MemoryDuoStore) Create(ctx context.Context, duo *models.Duo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.duos[duo.ID]; exists {
		return ErrDuplicate
	}
	for _, d := range s.duos {
		if d.InviteCode == duo.InviteCode && d.Status != models.DuoStatusEnded {
			return ErrDuplicate
		}
	}
	s.duos[duo.ID] = cloneDuo(*duo)
	return nil
}

func (s *MemoryDuoStore) GetByID(ctx context.Context, id string) (*models.Duo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.duos[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneDuo(d)
	return &out, nil
}

func (s *MemoryDuoStore) FindPendingByInviteCode(ctx context.Context, code string) (*models.Duo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.duos {
		if d.InviteCode == code && d.Status == models.DuoStatusPending {
			out := cloneDuo(d)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryDuoStore) InviteCodeInUse(ctx context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.duos {
		if d.InviteCode == code && d.Status != models.DuoStatusEnded {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryDuoStore) Update(ctx context.Context, duo *models.Duo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.duos[duo.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != duo.Version {
		return ErrVersionConflict
	}
	duo.Version++
	duo.UpdatedAt = time.Now().UTC()
	s.duos[duo.ID] = cloneDuo(*duo)
	return nil
}

// MemoryUserStore keeps users in process memory
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserStore creates an empty in-memory user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return ErrDuplicate
	}
	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *MemoryUserStore) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PushToken = cloneString(pushToken)
	s.users[userID] = u
	return nil
}

func (s *MemoryUserStore) SetDuoID(ctx context.Context, userID string, duoID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.DuoID = cloneString(duoID)
	s.users[userID] = u
	return nil
}

func cloneDuo(d models.Duo) models.Duo {
	d.UserB = cloneString(d.UserB)
	d.SharedPlant.LastResetDate = cloneString(d.SharedPlant.LastResetDate)
	return d
}

func cloneUser(u models.User) models.User {
	u.PushToken = cloneString(u.PushToken)
	u.DuoID = cloneString(u.DuoID)
	return u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
