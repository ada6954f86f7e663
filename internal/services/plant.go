package services

import "navjivan-backend/internal/models"

// Plant stages run from a seed (0) to full bloom (4).
const (
	PlantStageSeed = iota
	PlantStageSprout
	PlantStageSapling
	PlantStageGrowing
	PlantStageBloom
)

// PlantScore folds both partners' counters into a 0-100 score.
// Water caps at 16 glasses (32 points), meals at 6 (30 points), the goal
// completion ratio is worth up to 25 points and every smoke costs 10.
func PlantScore(p models.SharedPlant) float64 {
	water := float64(p.A.Water) + float64(p.B.Water)
	meals := float64(p.A.Meals) + float64(p.B.Meals)
	goalsDone := float64(p.A.GoalsCompleted) + float64(p.B.GoalsCompleted)
	goalsAll := float64(p.A.GoalsTotal) + float64(p.B.GoalsTotal)
	smokes := float64(p.A.Smokes) + float64(p.B.Smokes)

	score := min(water, 16) * 2
	score += min(meals, 6) * 5
	if goalsAll > 0 {
		score += goalsDone / goalsAll * 25
	}
	score -= smokes * 10

	return max(0, min(100, score))
}

// PlantStage maps the current score to a growth stage
func PlantStage(p models.SharedPlant) int {
	score := PlantScore(p)
	switch {
	case score >= 70:
		return PlantStageBloom
	case score >= 45:
		return PlantStageGrowing
	case score >= 25:
		return PlantStageSapling
	case score >= 10:
		return PlantStageSprout
	default:
		return PlantStageSeed
	}
}
