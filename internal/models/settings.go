package models

// Settings represents the persisted planning defaults
type Settings struct {
	HoursPerDay       float64   `json:"hours_per_day"`      // daily capacity in hours
	HorizonDays       int       `json:"horizon_days"`       // planning horizon in days
	Mode              Mode      `json:"mode"`               // scoring and scheduling mode
	ForecastScenarios []float64 `json:"forecast_scenarios"` // capacity deltas (hours/day) evaluated by the forecaster
}
