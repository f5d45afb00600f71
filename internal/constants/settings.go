package constants

const (
	// Planning Settings
	SettingHoursPerDay       = "hours_per_day"
	SettingHorizonDays       = "horizon_days"
	SettingMode              = "mode"
	SettingForecastScenarios = "forecast_scenarios"

	// Default Settings Values
	DefaultHoursPerDay       = 6.0
	DefaultHorizonDays       = 7
	DefaultMode              = "Academic"
	DefaultForecastScenarios = "-2,-1,0,1,2"

	// MinHoursPerDay is the floor applied to capacity entered by the user.
	MinHoursPerDay = 1.0
	// MaxHorizonDays bounds the planning horizon accepted from flags and settings.
	MaxHorizonDays = 365
)
