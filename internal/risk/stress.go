package risk

import (
	"math"

	"github.com/julianstephens/cadence/internal/models"
)

// WeightedStress returns the impact-weighted mean failure probability on a
// 0-100 scale, rounded to one decimal. One heavy task at high risk moves the
// index more than many light tasks at low risk. An empty or zero-weight
// table yields 0.
func WeightedStress(rows []models.RiskRow) float64 {
	var weighted, total float64
	for _, r := range rows {
		weighted += r.FailureProbability * r.ImpactWeight
		total += r.ImpactWeight
	}
	return Round1(weighted / (total + epsilon) * 100.0)
}

// ExpectedLoss sums expected loss hours, rounded to one decimal.
func ExpectedLoss(rows []models.RiskRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.ExpectedLossHours
	}
	return Round1(sum)
}

// CountAtLeast counts rows whose failure probability is at or above p.
func CountAtLeast(rows []models.RiskRow, p float64) int {
	n := 0
	for _, r := range rows {
		if r.FailureProbability >= p {
			n++
		}
	}
	return n
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
