package cli

import (
	"fmt"
	"math"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

// PlanningFlags override the persisted planning settings for one run.
// Unset flags fall back to the stored settings.
type PlanningFlags struct {
	Mode      string   `help:"Scoring mode: Academic, Operational or Balanced." short:"m"`
	Hours     *float64 `help:"Daily capacity in hours." name:"hours"`
	Horizon   *int     `help:"Planning horizon in days." name:"horizon"`
	Scenarios string   `help:"Comma separated capacity deltas for the forecast, e.g. -2,-1,0,1,2."`
}

// Resolve merges the flags over settings. Capacity is floored at
// constants.MinHoursPerDay; the horizon must fall within 1..MaxHorizonDays.
func (f PlanningFlags) Resolve(settings models.Settings) (engine.Params, error) {
	p := engine.Params{
		Mode:        settings.Mode,
		HoursPerDay: settings.HoursPerDay,
		HorizonDays: settings.HorizonDays,
		Scenarios:   settings.ForecastScenarios,
	}

	if f.Mode != "" {
		p.Mode = models.ParseMode(f.Mode)
	}
	if f.Hours != nil {
		p.HoursPerDay = *f.Hours
	}
	if f.Horizon != nil {
		p.HorizonDays = *f.Horizon
	}
	if f.Scenarios != "" {
		scenarios, err := storage.ParseScenarios(f.Scenarios)
		if err != nil {
			return engine.Params{}, err
		}
		p.Scenarios = scenarios
	}

	if math.IsNaN(p.HoursPerDay) || math.IsInf(p.HoursPerDay, 0) {
		return engine.Params{}, fmt.Errorf("invalid hours per day: %v", p.HoursPerDay)
	}
	p.HoursPerDay = math.Max(p.HoursPerDay, constants.MinHoursPerDay)

	if p.HorizonDays < 1 || p.HorizonDays > constants.MaxHorizonDays {
		return engine.Params{}, fmt.Errorf("horizon must be between 1 and %d days, got %d", constants.MaxHorizonDays, p.HorizonDays)
	}

	return p, nil
}
