// Package scoring computes the mode-dependent priority score of each task.
package scoring

import (
	"math"

	"github.com/julianstephens/cadence/internal/models"
)

// ModeWeights are the coefficients of the priority composite. All inputs
// they multiply are normalized to [0, 1].
type ModeWeights struct {
	Strategic  float64
	Impact     float64
	Urgency    float64
	Dependency float64
}

var (
	academicWeights    = ModeWeights{Strategic: 0.10, Impact: 0.05, Urgency: 0.70, Dependency: 0.15}
	operationalWeights = ModeWeights{Strategic: 0.35, Impact: 0.35, Urgency: 0.20, Dependency: 0.10}
	balancedWeights    = ModeWeights{Strategic: 0.25, Impact: 0.25, Urgency: 0.35, Dependency: 0.15}
)

// Weights returns the weight tuple for a mode. Any mode outside the known
// set gets the balanced weights.
func Weights(mode models.Mode) ModeWeights {
	switch mode {
	case models.ModeAcademic:
		return academicWeights
	case models.ModeOperational:
		return operationalWeights
	default:
		return balancedWeights
	}
}

// UrgencyScore returns 1/days_left in [0, 1], flooring days_left at 1.
func UrgencyScore(daysLeft int) float64 {
	return math.Min(1.0/float64(max(daysLeft, 1)), 1.0)
}

// normalizeRating rescales a 1-5 rating onto [0, 1].
func normalizeRating(v int) float64 {
	return (float64(v) - 1.0) / 4.0
}

// Score returns a new slice of scored tasks; the input is not modified.
func Score(tasks []models.Task, mode models.Mode) []models.ScoredTask {
	w := Weights(mode)
	out := make([]models.ScoredTask, len(tasks))
	for i, task := range tasks {
		urgency := UrgencyScore(task.DaysLeft)
		dependency := 0.0
		if task.DependencyRisk {
			dependency = 1.0
		}

		out[i] = models.ScoredTask{
			Task:            task,
			UrgencyScore:    urgency,
			DependencyScore: dependency,
			PriorityScore: normalizeRating(task.StrategicImportance)*w.Strategic +
				normalizeRating(task.BusinessImpact)*w.Impact +
				urgency*w.Urgency +
				dependency*w.Dependency,
			Scored: true,
		}
	}
	return out
}
