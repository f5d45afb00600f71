// Package risk estimates per-task failure probability, the impact-weighted
// stress index and the stress forecast across capacity scenarios.
package risk

import (
	"math"
	"sort"

	"github.com/julianstephens/cadence/internal/models"
)

// Risk score coefficients. Overload outweighs competition, which outweighs
// urgency, which outweighs the dependency flag. The negative bias keeps a
// task with no pressure at a low baseline probability.
const (
	Bias              = -1.2
	WeightOverload    = 1.8
	WeightCompetition = 1.2
	WeightUrgency     = 1.1
	WeightDependency  = 0.7

	// MinImpactWeight is the floor of the normalized impact weight.
	MinImpactWeight = 0.1

	epsilon = 1e-9
)

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AssessTable decodes an untyped task table and assesses it. A missing
// required column fails with *models.MissingFieldError.
func AssessTable(table models.Table, hoursPerDay float64, horizonDays int) ([]models.RiskRow, error) {
	tasks, err := models.DecodeTasks(table)
	if err != nil {
		return nil, err
	}
	return AssessTasks(tasks, hoursPerDay, horizonDays), nil
}

// AssessTasks assesses raw tasks that were never scored.
func AssessTasks(tasks []models.Task, hoursPerDay float64, horizonDays int) []models.RiskRow {
	return Assess(models.Unscored(tasks), hoursPerDay, horizonDays)
}

// Assess computes the risk columns for every task. hoursPerDay is expected
// to be positive; callers floor it before this point. The input slice is
// not modified and the result is deterministic.
func Assess(tasks []models.ScoredTask, hoursPerDay float64, horizonDays int) []models.RiskRow {
	horizon := max(horizonDays, 1)

	rows := make([]models.RiskRow, len(tasks))
	for i, t := range tasks {
		row := models.RiskRow{ScoredTask: t}
		row.DaysLeft = max(t.DaysLeft, 1)
		row.EstHours = clampHours(t.EstHours)

		row.DeadlineWindowDays = min(row.DaysLeft, horizon)
		row.CapacityBeforeDeadline = float64(row.DeadlineWindowDays) * hoursPerDay
		row.SlackHours = row.CapacityBeforeDeadline - row.EstHours
		row.OverloadSeverity = math.Max(0, -row.SlackHours)
		row.OverloadNorm = row.OverloadSeverity / (hoursPerDay + epsilon)
		row.Urgency = 1.0 / float64(row.DaysLeft)

		if t.DependencyRisk {
			row.Dep = 1
		}
		row.ImpactWeight = math.Max(MinImpactWeight,
			(0.5*float64(t.StrategicImportance)+0.5*float64(t.BusinessImpact))/5.0)

		rows[i] = row
	}

	applyCompetitionPressure(rows)

	for i := range rows {
		row := &rows[i]
		row.RiskScore = Bias +
			WeightOverload*row.OverloadNorm +
			WeightCompetition*row.CompetitionPressure +
			WeightUrgency*row.Urgency +
			WeightDependency*float64(row.Dep)
		row.FailureProbability = clamp(sigmoid(row.RiskScore), 0, 1)
		row.ExpectedImpact = row.FailureProbability * row.ImpactWeight
		row.ExpectedLossHours = row.FailureProbability * row.EstHours
	}

	return rows
}

// applyCompetitionPressure sets, for each row i, how far the hours of every
// task due on or before day i oversubscribe the capacity of i's own window:
//
//	max(0, sum(est_hours_j for days_left_j <= days_left_i) / capacity_i - 1)
//
// Rows are ranked by days_left once and a running sum gives each row its
// competing hours through a binary search.
func applyCompetitionPressure(rows []models.RiskRow) {
	n := len(rows)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rows[order[a]].DaysLeft < rows[order[b]].DaysLeft
	})

	// prefix[k] is the total est_hours of the first k rows in deadline order
	prefix := make([]float64, n+1)
	for k, idx := range order {
		prefix[k+1] = prefix[k] + rows[idx].EstHours
	}

	for i := range rows {
		d := rows[i].DaysLeft
		count := sort.Search(n, func(k int) bool {
			return rows[order[k]].DaysLeft > d
		})
		pressure := prefix[count] / (rows[i].CapacityBeforeDeadline + epsilon)
		rows[i].CompetitionPressure = math.Max(0, pressure-1.0)
	}
}

// clampHours floors estimates at 0. Non-finite values count as no work so one
// bad row cannot poison the competition sums of the others.
func clampHours(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}
