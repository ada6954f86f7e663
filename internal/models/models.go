package models

import (
	"encoding/json"
	"time"
)

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsSmoker  bool      `json:"isSmoker"`
	Streak    int       `json:"streak"`
	PushToken *string   `json:"pushToken,omitempty"`
	DuoID     *string   `json:"duoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DuoStatus is the lifecycle state of a duo
type DuoStatus string

const (
	DuoStatusPending DuoStatus = "pending"
	DuoStatusActive  DuoStatus = "active"
	DuoStatusEnded   DuoStatus = "ended"
)

// Role identifies which side of a duo a user occupies
type Role string

const (
	RoleA Role = "A"
	RoleB Role = "B"
)

// Other returns the partner's role
func (r Role) Other() Role {
	if r == RoleA {
		return RoleB
	}
	return RoleA
}

// Duo represents two users sharing a plant
type Duo struct {
	ID          string      `json:"id"`
	UserA       string      `json:"userA"`
	UserB       *string     `json:"userB"`
	InviteCode  string      `json:"inviteCode"`
	Status      DuoStatus   `json:"status"`
	SharedPlant SharedPlant `json:"sharedPlant"`
	Version     int64       `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// RoleOf returns the role held by userID, or false if the user is not a member
func (d *Duo) RoleOf(userID string) (Role, bool) {
	if d.UserA == userID {
		return RoleA, true
	}
	if d.UserB != nil && *d.UserB == userID {
		return RoleB, true
	}
	return "", false
}

// MemberID returns the user id holding role, empty when the seat is free
func (d *Duo) MemberID(role Role) string {
	if role == RoleA {
		return d.UserA
	}
	if d.UserB == nil {
		return ""
	}
	return *d.UserB
}

// Counters holds one partner's daily activity
type Counters struct {
	Water          int `json:"water"`
	Meals          int `json:"meals"`
	GoalsCompleted int `json:"goalsCompleted"`
	GoalsTotal     int `json:"goalsTotal"`
	Smokes         int `json:"smokes"`
	Steps          int `json:"steps"`
	Calories       int `json:"calories"`
}

// SharedPlant holds both partners' counters for the current day
type SharedPlant struct {
	A             Counters
	B             Counters
	LastResetDate *string
}

// Side returns the counters owned by role
func (p *SharedPlant) Side(role Role) *Counters {
	if role == RoleB {
		return &p.B
	}
	return &p.A
}

type sharedPlantJSON struct {
	WaterA          int     `json:"waterA"`
	WaterB          int     `json:"waterB"`
	MealsA          int     `json:"mealsA"`
	MealsB          int     `json:"mealsB"`
	GoalsCompletedA int     `json:"goalsCompletedA"`
	GoalsCompletedB int     `json:"goalsCompletedB"`
	GoalsTotalA     int     `json:"goalsTotalA"`
	GoalsTotalB     int     `json:"goalsTotalB"`
	SmokesA         int     `json:"smokesA"`
	SmokesB         int     `json:"smokesB"`
	StepsA          int     `json:"stepsA"`
	StepsB          int     `json:"stepsB"`
	CaloriesA       int     `json:"caloriesA"`
	CaloriesB       int     `json:"caloriesB"`
	LastResetDate   *string `json:"lastResetDate"`
}

// MarshalJSON keeps the flat waterA/waterB wire shape the mobile client reads
func (p SharedPlant) MarshalJSON() ([]byte, error) {
	return json.Marshal(sharedPlantJSON{
		WaterA:          p.A.Water,
		WaterB:          p.B.Water,
		MealsA:          p.A.Meals,
		MealsB:          p.B.Meals,
		GoalsCompletedA: p.A.GoalsCompleted,
		GoalsCompletedB: p.B.GoalsCompleted,
		GoalsTotalA:     p.A.GoalsTotal,
		GoalsTotalB:     p.B.GoalsTotal,
		SmokesA:         p.A.Smokes,
		SmokesB:         p.B.Smokes,
		StepsA:          p.A.Steps,
		StepsB:          p.B.Steps,
		CaloriesA:       p.A.Calories,
		CaloriesB:       p.B.Calories,
		LastResetDate:   p.LastResetDate,
	})
}

// UnmarshalJSON reads the flat wire shape
func (p *SharedPlant) UnmarshalJSON(data []byte) error {
	var raw sharedPlantJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = SharedPlant{
		A: Counters{
			Water:          raw.WaterA,
			Meals:          raw.MealsA,
			GoalsCompleted: raw.GoalsCompletedA,
			GoalsTotal:     raw.GoalsTotalA,
			Smokes:         raw.SmokesA,
			Steps:          raw.StepsA,
			Calories:       raw.CaloriesA,
		},
		B: Counters{
			Water:          raw.WaterB,
			Meals:          raw.MealsB,
			GoalsCompleted: raw.GoalsCompletedB,
			GoalsTotal:     raw.GoalsTotalB,
			Smokes:         raw.SmokesB,
			Steps:          raw.StepsB,
			Calories:       raw.CaloriesB,
		},
		LastResetDate: raw.LastResetDate,
	}
	return nil
}
