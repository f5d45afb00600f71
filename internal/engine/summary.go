package engine

import (
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/risk"
)

// StressLevel bands the stress index.
type StressLevel string

const (
	StressCritical   StressLevel = "critical"
	StressElevated   StressLevel = "elevated"
	StressManageable StressLevel = "manageable"
	StressStable     StressLevel = "stable"
)

// LevelFor returns the band of a 0-100 stress index.
func LevelFor(stress float64) StressLevel {
	switch {
	case stress >= constants.StressCritical:
		return StressCritical
	case stress >= constants.StressElevated:
		return StressElevated
	case stress >= constants.StressManageable:
		return StressManageable
	default:
		return StressStable
	}
}

// Summary carries the headline KPIs of a run.
type Summary struct {
	TaskCount         int         `json:"task_count"`
	StressIndex       float64     `json:"stress_index"`
	StressLevel       StressLevel `json:"stress_level"`
	ExpectedLossHours float64     `json:"expected_loss_hours"`
	HighRiskCount     int         `json:"high_risk_count"`
	MissedDeadlines   int         `json:"missed_deadlines"`
}

func Summarize(rows []models.RiskRow, schedule models.Schedule) Summary {
	stress := risk.WeightedStress(rows)
	return Summary{
		TaskCount:         len(rows),
		StressIndex:       stress,
		StressLevel:       LevelFor(stress),
		ExpectedLossHours: risk.ExpectedLoss(rows),
		HighRiskCount:     risk.CountAtLeast(rows, constants.HighRiskThreshold),
		MissedDeadlines:   len(schedule.DeadlineRisks),
	}
}
