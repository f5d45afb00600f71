package analysis

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/validation"
)

type ValidateCmd struct {
	TaskFileArg       `embed:""`
	cli.PlanningFlags `embed:""`
	cli.OutputFlags   `embed:""`

	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, c.PlanningFlags)
	if err != nil {
		return err
	}

	result := validation.New().ValidateTasks(tasks, params.HoursPerDay, params.HorizonDays)
	if c.JSON() {
		if err := ctx.WriteJSON(result); err != nil {
			return err
		}
	} else {
		ctx.Printf("Validating %d tasks (%g h/day over %d days)...\n\n", len(tasks), params.HoursPerDay, params.HorizonDays)
		ctx.Printf("%s", result.FormatReport())
	}

	if c.Strict && result.HasConflicts() {
		return fmt.Errorf("%d conflicts found", len(result.Conflicts))
	}
	return nil
}
