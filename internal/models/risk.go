package models

// RiskRow carries the per-task output of the risk model.
type RiskRow struct {
	ScoredTask
	DeadlineWindowDays     int     `json:"deadline_window_days"`
	CapacityBeforeDeadline float64 `json:"capacity_before_deadline"`
	SlackHours             float64 `json:"slack_hours"`
	OverloadSeverity       float64 `json:"overload_severity"`
	OverloadNorm           float64 `json:"overload_norm"`
	Urgency                float64 `json:"urgency"`
	CompetitionPressure    float64 `json:"competition_pressure"`
	Dep                    int     `json:"dep"`
	ImpactWeight           float64 `json:"impact_weight"`
	RiskScore              float64 `json:"risk_score"`
	FailureProbability     float64 `json:"failure_probability"`
	ExpectedImpact         float64 `json:"expected_impact"`
	ExpectedLossHours      float64 `json:"expected_loss_hours"`
}

// ForecastRow is the system outcome under one capacity scenario.
type ForecastRow struct {
	CapacityHoursPerDay float64 `json:"capacity_hours_per_day"`
	CapacityDelta       float64 `json:"capacity_delta"`
	StressIndex         float64 `json:"stress_index"`
	ExpectedLossHours   float64 `json:"expected_loss_hours"`
	HighRiskTasksPct    float64 `json:"high_risk_tasks_pct"`
}
