package analysis

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/taskfile"
	"github.com/julianstephens/cadence/internal/validation"
)

// TaskFileArg is the positional task file shared by the analysis commands.
type TaskFileArg struct {
	File string `arg:"" type:"existingfile" help:"Task file (.csv, .json, .yaml, .yml or .toml)."`
}

type StartFlag struct {
	Start string `help:"Calendar date of schedule day 1 (YYYY-MM-DD). Defaults to today."`
}

func (f StartFlag) StartDate(ctx *cli.Context) (time.Time, error) {
	if f.Start == "" {
		now := ctx.Today()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	start, err := time.ParseInLocation(constants.DateFormat, f.Start, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", f.Start)
	}
	return start, nil
}

// load reads the task file and resolves the planning parameters.
func load(ctx *cli.Context, file string, flags cli.PlanningFlags) ([]models.Task, engine.Params, error) {
	params, err := flags.Resolve(ctx.Settings())
	if err != nil {
		return nil, engine.Params{}, err
	}
	tasks, err := taskfile.LoadTasks(file)
	if err != nil {
		return nil, engine.Params{}, err
	}
	logger.Debug("Loaded task file", "path", file, "tasks", len(tasks))
	return tasks, params, nil
}

type AnalyzeCmd struct {
	TaskFileArg       `embed:""`
	cli.PlanningFlags `embed:""`
	cli.OutputFlags   `embed:""`
	StartFlag         `embed:""`

	Save  bool   `help:"Save a snapshot of the result to the report history."`
	Label string `help:"Label for the saved report."`
}

type analyzeOutput struct {
	engine.Analysis
	Conflicts []validation.Conflict `json:"conflicts"`
	ReportID  string                `json:"report_id,omitempty"`
}

func (c *AnalyzeCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, c.PlanningFlags)
	if err != nil {
		return err
	}
	start, err := c.StartDate(ctx)
	if err != nil {
		return err
	}

	result, err := ctx.Analyze(tasks, params)
	if err != nil {
		return err
	}
	conflicts := validation.New().ValidateTasks(tasks, params.HoursPerDay, params.HorizonDays)
	if conflicts.HasConflicts() {
		logger.Warn("Task file has conflicts", "path", c.File, "count", len(conflicts.Conflicts))
	}

	var saved models.Report
	if c.Save {
		if saved, err = c.save(ctx, result); err != nil {
			return err
		}
	}

	if c.JSON() {
		return ctx.WriteJSON(analyzeOutput{Analysis: result, Conflicts: conflicts.Conflicts, ReportID: saved.ID})
	}

	w := ctx.Stdout()
	cli.RenderSummary(w, result.Summary, result.Params)
	fmt.Fprintln(w)
	cli.RenderRisk(w, result.Risk)
	fmt.Fprintln(w)
	cli.RenderSchedule(w, result.Schedule, result.Params.Mode, start)
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.Title("Capacity forecast"))
	cli.RenderForecast(w, result.Forecast)
	if len(result.Findings) > 0 {
		fmt.Fprintln(w)
		cli.RenderFindings(w, result.Findings)
	}
	if conflicts.HasConflicts() {
		fmt.Fprintln(w)
		fmt.Fprint(w, conflicts.FormatReport())
	}
	if saved.ID != "" {
		fmt.Fprintf(w, "\nSaved report %s\n", saved.ID)
	}
	return nil
}

func (c *AnalyzeCmd) save(ctx *cli.Context, result engine.Analysis) (models.Report, error) {
	if ctx.Store == nil {
		return models.Report{}, fmt.Errorf("no storage configured")
	}
	if err := ctx.Store.Load(); err != nil {
		return models.Report{}, err
	}

	report := result.Report()
	report.Label = c.Label
	report.Source = c.File
	if abs, err := filepath.Abs(c.File); err == nil {
		report.Source = abs
	}

	saved, err := ctx.Store.SaveReport(report)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	logger.Info("Report saved", "id", saved.ID, "stress_index", saved.StressIndex)
	return saved, nil
}

type ScoreCmd struct {
	TaskFileArg     `embed:""`
	cli.OutputFlags `embed:""`
	Mode            string `help:"Scoring mode: Academic, Operational or Balanced." short:"m"`
}

func (c *ScoreCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, cli.PlanningFlags{Mode: c.Mode})
	if err != nil {
		return err
	}
	result, err := ctx.Analyze(tasks, params)
	if err != nil {
		return err
	}
	if c.JSON() {
		return ctx.WriteJSON(result.Scored)
	}
	ctx.Printf("%s %s\n", cli.Title("Priority"), cli.Muted("("+params.Mode.String()+" mode)"))
	cli.RenderScored(ctx.Stdout(), result.Scored)
	return nil
}

type RiskCmd struct {
	TaskFileArg       `embed:""`
	cli.PlanningFlags `embed:""`
	cli.OutputFlags   `embed:""`
}

func (c *RiskCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, c.PlanningFlags)
	if err != nil {
		return err
	}
	result, err := ctx.Analyze(tasks, params)
	if err != nil {
		return err
	}
	if c.JSON() {
		return ctx.WriteJSON(result.Risk)
	}
	cli.RenderRisk(ctx.Stdout(), result.Risk)
	return nil
}

type ScheduleCmd struct {
	TaskFileArg       `embed:""`
	cli.PlanningFlags `embed:""`
	cli.OutputFlags   `embed:""`
	StartFlag         `embed:""`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, c.PlanningFlags)
	if err != nil {
		return err
	}
	start, err := c.StartDate(ctx)
	if err != nil {
		return err
	}
	result, err := ctx.Analyze(tasks, params)
	if err != nil {
		return err
	}
	if c.JSON() {
		return ctx.WriteJSON(result.Schedule)
	}
	cli.RenderSchedule(ctx.Stdout(), result.Schedule, params.Mode, start)
	return nil
}

type ForecastCmd struct {
	TaskFileArg       `embed:""`
	cli.PlanningFlags `embed:""`
	cli.OutputFlags   `embed:""`
}

func (c *ForecastCmd) Run(ctx *cli.Context) error {
	tasks, params, err := load(ctx, c.File, c.PlanningFlags)
	if err != nil {
		return err
	}
	result, err := ctx.Analyze(tasks, params)
	if err != nil {
		return err
	}
	if c.JSON() {
		return ctx.WriteJSON(result.Forecast)
	}
	cli.RenderForecast(ctx.Stdout(), result.Forecast)
	return nil
}
