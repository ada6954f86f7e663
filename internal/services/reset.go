package services

import (
	"time"

	"navjivan-backend/internal/models"
)

const dayLayout = "2006-01-02"

// Today returns the UTC calendar day of now. All duos share this day boundary.
func Today(now time.Time) string {
	return now.UTC().Format(dayLayout)
}

// ResetIfNewDay zeroes every counter when the plant was last reset on a
// different day than today and reports whether it did.
func ResetIfNewDay(plant *models.SharedPlant, today string) bool {
	if plant.LastResetDate != nil && *plant.LastResetDate == today {
		return false
	}
	plant.A = models.Counters{}
	plant.B = models.Counters{}
	day := today
	plant.LastResetDate = &day
	return true
}
