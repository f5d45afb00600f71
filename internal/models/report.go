package models

// Report is a saved snapshot of one analysis run. It stores the outcome
// metrics and the forecast curve, never the task list itself.
type Report struct {
	ID                string        `json:"id"`
	CreatedAt         string        `json:"created_at"` // RFC3339 timestamp
	Label             string        `json:"label,omitempty"`
	Source            string        `json:"source,omitempty"` // task file the run was computed from
	Mode              Mode          `json:"mode"`
	HoursPerDay       float64       `json:"hours_per_day"`
	HorizonDays       int           `json:"horizon_days"`
	TaskCount         int           `json:"task_count"`
	StressIndex       float64       `json:"stress_index"`
	StressLevel       string        `json:"stress_level"`
	ExpectedLossHours float64       `json:"expected_loss_hours"`
	HighRiskCount     int           `json:"high_risk_count"`
	MissedDeadlines   int           `json:"missed_deadlines"`
	Forecast          []ForecastRow `json:"forecast"`
	DeletedAt         *string       `json:"deleted_at,omitempty"` // RFC3339 timestamp
}
