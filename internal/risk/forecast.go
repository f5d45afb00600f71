package risk

import (
	"math"
	"sort"

	"github.com/sourcegraph/conc/iter"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// DefaultScenarios are the capacity deltas (hours/day) used when none are given.
var DefaultScenarios = []float64{-2, -1, 0, 1, 2}

// Forecast re-runs the risk model at base capacity plus each delta and
// reports the resulting system metrics. Scenario capacity is floored at
// constants.MinHoursPerDay. Scenarios are independent and evaluated
// concurrently; the result is sorted ascending by capacity, ties keeping
// their scenario order.
func Forecast(tasks []models.Task, hoursPerDay float64, horizonDays int, deltas []float64) []models.ForecastRow {
	if len(deltas) == 0 {
		deltas = DefaultScenarios
	}

	rows := iter.Map(deltas, func(delta *float64) models.ForecastRow {
		return scenario(tasks, hoursPerDay, horizonDays, *delta)
	})

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CapacityHoursPerDay < rows[j].CapacityHoursPerDay
	})
	return rows
}

func scenario(tasks []models.Task, hoursPerDay float64, horizonDays int, delta float64) models.ForecastRow {
	capacity := math.Max(constants.MinHoursPerDay, hoursPerDay+delta)
	assessed := AssessTasks(tasks, capacity, horizonDays)

	highRiskPct := 0.0
	if len(assessed) > 0 {
		highRiskPct = Round1(float64(CountAtLeast(assessed, constants.HighRiskThreshold)) / float64(len(assessed)) * 100.0)
	}

	return models.ForecastRow{
		CapacityHoursPerDay: capacity,
		CapacityDelta:       delta,
		StressIndex:         WeightedStress(assessed),
		ExpectedLossHours:   ExpectedLoss(assessed),
		HighRiskTasksPct:    highRiskPct,
	}
}

// Sensitivity returns the stress drop from the baseline scenario (delta 0)
// to the +1 hour/day scenario. ok is false when either scenario is absent.
func Sensitivity(rows []models.ForecastRow) (drop float64, ok bool) {
	var base, plusOne *models.ForecastRow
	for i := range rows {
		switch rows[i].CapacityDelta {
		case 0:
			if base == nil {
				base = &rows[i]
			}
		case 1:
			if plusOne == nil {
				plusOne = &rows[i]
			}
		}
	}
	if base == nil || plusOne == nil {
		return 0, false
	}
	return Round1(base.StressIndex - plusOne.StressIndex), true
}
