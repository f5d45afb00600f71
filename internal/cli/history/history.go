package history

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

type HistoryListCmd struct {
	cli.OutputFlags `embed:""`

	Deleted bool `help:"Include deleted reports."`
}

func (c *HistoryListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reports, err := ctx.Store.ListReports(c.Deleted)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if c.JSON() {
		return ctx.WriteJSON(reports)
	}

	if len(reports) == 0 {
		ctx.Println("No saved reports. Run 'cadence analyze <file> --save' to record one.")
		return nil
	}

	now := ctx.Today()
	t := cli.NewTable("ID", "Saved", "Label", "Mode", "Tasks", "Stress", "Exp. loss", "Missed")
	for _, r := range reports {
		label := r.Label
		if r.DeletedAt != nil {
			label += " (deleted)"
		}
		t.Row(shortID(r.ID), age(r.CreatedAt, now), label, r.Mode.String(), strconv.Itoa(r.TaskCount),
			fmt.Sprintf("%.1f %s", r.StressIndex, r.StressLevel), fmt.Sprintf("%.1f h", r.ExpectedLossHours), strconv.Itoa(r.MissedDeadlines))
	}
	ctx.Println(t.String())
	return nil
}

type HistoryShowCmd struct {
	cli.OutputFlags `embed:""`

	ID string `arg:"" help:"Report ID (or a unique prefix)."`
}

func (c *HistoryShowCmd) Run(ctx *cli.Context) error {
	report, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.JSON() {
		return ctx.WriteJSON(report)
	}

	ctx.Printf("%s %s\n", cli.Title("Report"), report.ID)
	if report.Label != "" {
		ctx.Printf("  Label:             %s\n", report.Label)
	}
	ctx.Printf("  Saved:             %s (%s)\n", report.CreatedAt, age(report.CreatedAt, ctx.Today()))
	if report.Source != "" {
		ctx.Printf("  Source:            %s\n", report.Source)
	}
	ctx.Printf("  Mode:              %s, %g h/day over %d days\n", report.Mode, report.HoursPerDay, report.HorizonDays)
	ctx.Printf("  Tasks:             %d\n", report.TaskCount)
	ctx.Printf("  Stress index:      %.1f (%s)\n", report.StressIndex, report.StressLevel)
	ctx.Printf("  Expected loss:     %.1f h\n", report.ExpectedLossHours)
	ctx.Printf("  High-risk tasks:   %d\n", report.HighRiskCount)
	ctx.Printf("  Missed deadlines:  %d\n", report.MissedDeadlines)
	if report.DeletedAt != nil {
		ctx.Printf("  Deleted:           %s\n", *report.DeletedAt)
	}
	if len(report.Forecast) > 0 {
		ctx.Println()
		ctx.Println(cli.Title("Capacity forecast"))
		cli.RenderForecast(ctx.Stdout(), report.Forecast)
	}
	return nil
}

type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Report ID (or a unique prefix)."`
}

func (c *HistoryDeleteCmd) Run(ctx *cli.Context) error {
	report, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteReport(report.ID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	ctx.Printf("Deleted report %s. Use 'cadence history restore %s' to undo.\n", report.ID, shortID(report.ID))
	return nil
}

type HistoryRestoreCmd struct {
	ID string `arg:"" help:"Report ID (or a unique prefix)."`
}

func (c *HistoryRestoreCmd) Run(ctx *cli.Context) error {
	report, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.RestoreReport(report.ID); err != nil {
		return fmt.Errorf("failed to restore report: %w", err)
	}
	ctx.Printf("Restored report %s\n", report.ID)
	return nil
}

// resolve finds a report, deleted or not, by full ID or unique ID prefix.
func resolve(ctx *cli.Context, id string) (models.Report, error) {
	if err := ctx.Store.Load(); err != nil {
		return models.Report{}, err
	}
	if report, err := ctx.Store.GetReport(id); err == nil {
		return report, nil
	}

	reports, err := ctx.Store.ListReports(true)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to list reports: %w", err)
	}
	var matches []models.Report
	for _, r := range reports {
		if len(id) > 0 && len(r.ID) >= len(id) && r.ID[:len(id)] == id {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return models.Report{}, fmt.Errorf("%w: %s", storage.ErrReportNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return models.Report{}, fmt.Errorf("report ID prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func age(createdAt string, now time.Time) string {
	ts, err := time.Parse(storage.TimestampFormat, createdAt)
	if err != nil {
		return createdAt
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
