package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"navjivan-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const duoColumns = `
	id, user_a_id, user_b_id, invite_code, status,
	water_a, water_b, meals_a, meals_b,
	goals_completed_a, goals_completed_b, goals_total_a, goals_total_b,
	smokes_a, smokes_b, steps_a, steps_b, calories_a, calories_b,
	last_reset_date, version, created_at, updated_at
`

// DuoRepository handles database operations for duos
type DuoRepository struct {
	db *pgxpool.Pool
}

// NewDuoRepository creates a new duo repository
func NewDuoRepository(db *pgxpool.Pool) *DuoRepository {
	return &DuoRepository{db: db}
}

// Create inserts a new duo. It returns ErrDuplicate when a live duo already
// holds the invite code.
func (r *DuoRepository) Create(ctx context.Context, duo *models.Duo) error {
	query := `INSERT INTO duos (` + duoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)`
	p := duo.SharedPlant
	_, err := r.db.Exec(ctx, query,
		duo.ID, duo.UserA, duo.UserB, duo.InviteCode, string(duo.Status),
		p.A.Water, p.B.Water, p.A.Meals, p.B.Meals,
		p.A.GoalsCompleted, p.B.GoalsCompleted, p.A.GoalsTotal, p.B.GoalsTotal,
		p.A.Smokes, p.B.Smokes, p.A.Steps, p.B.Steps, p.A.Calories, p.B.Calories,
		p.LastResetDate, duo.Version, duo.CreatedAt, duo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create duo: %w", err)
	}
	return nil
}

// GetByID retrieves a duo by ID
func (r *DuoRepository) GetByID(ctx context.Context, id string) (*models.Duo, error) {
	query := `SELECT ` + duoColumns + ` FROM duos WHERE id = $1`
	duo, err := scanDuo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get duo: %w", err)
	}
	return duo, nil
}

// FindPendingByInviteCode retrieves the pending duo holding code
func (r *DuoRepository) FindPendingByInviteCode(ctx context.Context, code string) (*models.Duo, error) {
	query := `SELECT ` + duoColumns + ` FROM duos WHERE invite_code = $1 AND status = 'pending'`
	duo, err := scanDuo(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get duo by invite code: %w", err)
	}
	return duo, nil
}

// InviteCodeInUse checks whether a live duo holds code
func (r *DuoRepository) InviteCodeInUse(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM duos WHERE invite_code = $1 AND status <> 'ended')`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return exists, nil
}

// Update writes duo back if nobody changed it since it was read. On success
// duo.Version is advanced; otherwise ErrVersionConflict or ErrNotFound is
// returned and the row is untouched.
func (r *DuoRepository) Update(ctx context.Context, duo *models.Duo) error {
	query := `
		UPDATE duos SET
			user_b_id = $2, status = $3,
			water_a = $4, water_b = $5, meals_a = $6, meals_b = $7,
			goals_completed_a = $8, goals_completed_b = $9, goals_total_a = $10, goals_total_b = $11,
			smokes_a = $12, smokes_b = $13, steps_a = $14, steps_b = $15,
			calories_a = $16, calories_b = $17, last_reset_date = $18,
			version = version + 1, updated_at = $19
		WHERE id = $1 AND version = $20
	`
	now := time.Now().UTC()
	p := duo.SharedPlant
	result, err := r.db.Exec(ctx, query,
		duo.ID, duo.UserB, string(duo.Status),
		p.A.Water, p.B.Water, p.A.Meals, p.B.Meals,
		p.A.GoalsCompleted, p.B.GoalsCompleted, p.A.GoalsTotal, p.B.GoalsTotal,
		p.A.Smokes, p.B.Smokes, p.A.Steps, p.B.Steps,
		p.A.Calories, p.B.Calories, p.LastResetDate,
		now, duo.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update duo: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM duos WHERE id = $1)`, duo.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check duo existence: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	duo.Version++
	duo.UpdatedAt = now
	return nil
}

func scanDuo(row pgx.Row) (*models.Duo, error) {
	var (
		duo    models.Duo
		status string
	)
	p := &duo.SharedPlant
	err := row.Scan(
		&duo.ID, &duo.UserA, &duo.UserB, &duo.InviteCode, &status,
		&p.A.Water, &p.B.Water, &p.A.Meals, &p.B.Meals,
		&p.A.GoalsCompleted, &p.B.GoalsCompleted, &p.A.GoalsTotal, &p.B.GoalsTotal,
		&p.A.Smokes, &p.B.Smokes, &p.A.Steps, &p.B.Steps, &p.A.Calories, &p.B.Calories,
		&p.LastResetDate, &duo.Version, &duo.CreatedAt, &duo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	duo.Status = models.DuoStatus(status)
	return &duo, nil
}
