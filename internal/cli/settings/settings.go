package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Hours     *float64 `help:"Default daily capacity in hours."`
	Horizon   *int     `help:"Default planning horizon in days."`
	Mode      string   `help:"Default scoring mode: Academic, Operational or Balanced."`
	Scenarios *string  `help:"Default forecast capacity deltas, comma separated."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(ctx, settings)
		return nil
	}

	updated := false
	if c.Hours != nil {
		if *c.Hours < constants.MinHoursPerDay {
			return fmt.Errorf("hours per day must be at least %g", constants.MinHoursPerDay)
		}
		settings.HoursPerDay = *c.Hours
		updated = true
	}
	if c.Horizon != nil {
		if *c.Horizon < 1 || *c.Horizon > constants.MaxHorizonDays {
			return fmt.Errorf("horizon must be between 1 and %d days", constants.MaxHorizonDays)
		}
		settings.HorizonDays = *c.Horizon
		updated = true
	}
	if c.Mode != "" {
		settings.Mode = models.ParseMode(c.Mode)
		if settings.Mode == models.ModeBalanced && !strings.EqualFold(strings.TrimSpace(c.Mode), string(models.ModeBalanced)) {
			ctx.Printf("Unknown mode %q, using %s.\n", c.Mode, models.ModeBalanced)
		}
		updated = true
	}
	if c.Scenarios != nil {
		scenarios, err := storage.ParseScenarios(*c.Scenarios)
		if err != nil {
			return err
		}
		settings.ForecastScenarios = scenarios
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

func printSettings(ctx *cli.Context, s models.Settings) {
	scenarios := storage.FormatScenarios(s.ForecastScenarios)
	if scenarios == "" {
		scenarios = "(default)"
	}
	ctx.Println("Current Settings:")
	ctx.Printf("  Hours per day:       %g\n", s.HoursPerDay)
	ctx.Printf("  Horizon days:        %d\n", s.HorizonDays)
	ctx.Printf("  Mode:                %s\n", s.Mode)
	ctx.Printf("  Forecast scenarios:  %s\n", scenarios)
	ctx.Printf("\nStorage: %s\n", ctx.Store.GetConfigPath())
}
