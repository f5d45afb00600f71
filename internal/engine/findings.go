package engine

import (
	"math"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/risk"
)

type FindingKind string

const (
	FindingRiskConcentration   FindingKind = "risk_concentration"
	FindingDiffuseRisk         FindingKind = "diffuse_risk"
	FindingHighestConsequence  FindingKind = "highest_consequence"
	FindingHighRiskTasks       FindingKind = "high_risk_tasks"
	FindingModerateRiskTasks   FindingKind = "moderate_risk_tasks"
	FindingDropCandidates      FindingKind = "drop_candidates"
	FindingCapacitySensitivity FindingKind = "capacity_sensitivity"
)

// Finding is one structured observation about a run. Value depends on Kind:
// the probability std-dev for risk_concentration, the mean probability for
// diffuse_risk, expected loss hours for highest_consequence and the stress
// drop for capacity_sensitivity. It is zero for the task lists.
type Finding struct {
	Kind        FindingKind `json:"kind"`
	Tasks       []string    `json:"tasks,omitempty"`
	Value       float64     `json:"value"`
	Probability float64     `json:"probability,omitempty"`
}

// Findings derives the observations in a fixed order: distribution,
// highest consequence, risk band lists, drop candidates, capacity
// sensitivity. Task lists keep input order.
func Findings(rows []models.RiskRow, forecast []models.ForecastRow) []Finding {
	findings := []Finding{}

	if len(rows) > 1 {
		mean, std := probabilityStats(rows)
		switch {
		case std > constants.ConcentrationStdDev:
			findings = append(findings, Finding{Kind: FindingRiskConcentration, Value: risk.Round2(std)})
		case std < constants.DiffuseStdDev && mean > constants.DiffuseMeanProbability:
			findings = append(findings, Finding{Kind: FindingDiffuseRisk, Value: risk.Round2(mean)})
		}
	}

	if worst, ok := highestLoss(rows); ok && risk.Round1(worst.FailureProbability*100) >= constants.ConsequenceMinProbability*100 {
		findings = append(findings, Finding{
			Kind:        FindingHighestConsequence,
			Tasks:       []string{worst.Name},
			Value:       risk.Round1(worst.ExpectedLossHours),
			Probability: worst.FailureProbability,
		})
	}

	var high, moderate, drop []string
	for _, r := range rows {
		p := r.FailureProbability
		switch {
		case p >= constants.HighRiskThreshold:
			high = append(high, r.Name)
		case p >= constants.ModerateRiskThreshold:
			moderate = append(moderate, r.Name)
		}
		if p >= constants.DropCandidateProbability && r.ImpactWeight <= constants.DropCandidateMaxWeight {
			drop = append(drop, r.Name)
		}
	}
	if len(high) > 0 {
		findings = append(findings, Finding{Kind: FindingHighRiskTasks, Tasks: high})
	} else if len(moderate) > 0 {
		findings = append(findings, Finding{Kind: FindingModerateRiskTasks, Tasks: moderate})
	}
	if len(drop) > 0 {
		findings = append(findings, Finding{Kind: FindingDropCandidates, Tasks: drop})
	}

	if d, ok := risk.Sensitivity(forecast); ok && d > 0 {
		findings = append(findings, Finding{Kind: FindingCapacitySensitivity, Value: d})
	}

	return findings
}

// probabilityStats returns the mean and population std-dev of failure probability.
func probabilityStats(rows []models.RiskRow) (mean, std float64) {
	n := float64(len(rows))
	for _, r := range rows {
		mean += r.FailureProbability
	}
	mean /= n

	var variance float64
	for _, r := range rows {
		d := r.FailureProbability - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / n)
}

// highestLoss returns the first row with the largest expected loss.
func highestLoss(rows []models.RiskRow) (models.RiskRow, bool) {
	if len(rows) == 0 {
		return models.RiskRow{}, false
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.ExpectedLossHours > best.ExpectedLossHours {
			best = r
		}
	}
	return best, true
}
