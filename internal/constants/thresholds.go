package constants

const (
	// Risk bands on failure probability
	HighRiskThreshold     = 0.7
	ModerateRiskThreshold = 0.4

	// Stress index bands (0-100)
	StressCritical   = 75.0
	StressElevated   = 50.0
	StressManageable = 25.0

	// Finding thresholds
	ConcentrationStdDev       = 0.25 // population std-dev of failure probability above which risk is concentrated
	DiffuseStdDev             = 0.08 // std-dev below which risk is uniform
	DiffuseMeanProbability    = 0.3  // minimum mean probability for a diffuse finding
	ConsequenceMinProbability = 0.30 // worst-loss task is reported only when p, as a percentage rounded to 0.1, reaches this
	DropCandidateProbability  = 0.5
	DropCandidateMaxWeight    = 0.3
)

func init() {
	// Runtime validation: bands must be strictly ordered
	if !(HighRiskThreshold > ModerateRiskThreshold) {
		panic("HighRiskThreshold must exceed ModerateRiskThreshold")
	}
	if !(StressCritical > StressElevated && StressElevated > StressManageable) {
		panic("stress bands must be strictly decreasing")
	}
}
