// Package engine runs the full analysis pipeline: priority scoring, risk
// assessment, then stress, forecast and schedule over the assessed rows.
package engine

import (
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/risk"
	"github.com/julianstephens/cadence/internal/scheduler"
	"github.com/julianstephens/cadence/internal/scoring"
)

// Params are the planning inputs of one run.
type Params struct {
	Mode        models.Mode
	HoursPerDay float64
	HorizonDays int
	// Scenarios are forecast capacity deltas; nil selects risk.DefaultScenarios.
	Scenarios []float64
}

// DefaultParams returns the built-in planning defaults.
func DefaultParams() Params {
	return Params{
		Mode:        models.ParseMode(constants.DefaultMode),
		HoursPerDay: constants.DefaultHoursPerDay,
		HorizonDays: constants.DefaultHorizonDays,
	}
}

// Analysis holds every artifact of one run. Nothing in it aliases the input.
type Analysis struct {
	Params   Params               `json:"params"`
	Scored   []models.ScoredTask  `json:"scored"`
	Risk     []models.RiskRow     `json:"risk"`
	Forecast []models.ForecastRow `json:"forecast"`
	Schedule models.Schedule      `json:"schedule"`
	Summary  Summary              `json:"summary"`
	Findings []Finding            `json:"findings"`
}

// Engine runs analyses. It holds no per-run state and is safe to reuse.
type Engine struct {
	scheduler *scheduler.Scheduler
}

func New() *Engine {
	return &Engine{scheduler: scheduler.New()}
}

// AnalyzeTable decodes an untyped table and runs the pipeline over it.
func (e *Engine) AnalyzeTable(table models.Table, p Params) (Analysis, error) {
	tasks, err := models.DecodeTasks(table)
	if err != nil {
		return Analysis{}, err
	}
	return e.Analyze(tasks, p)
}

// Analyze scores the tasks under p.Mode, assesses them at p.HoursPerDay over
// p.HorizonDays, then derives the stress index, the capacity forecast, the
// schedule, the summary KPIs and the findings from the assessed rows.
func (e *Engine) Analyze(tasks []models.Task, p Params) (Analysis, error) {
	scored := scoring.Score(tasks, p.Mode)
	rows := risk.Assess(scored, p.HoursPerDay, p.HorizonDays)
	forecast := risk.Forecast(tasks, p.HoursPerDay, p.HorizonDays, p.Scenarios)

	schedule, err := e.scheduler.Build(rows, p.HoursPerDay, p.HorizonDays, p.Mode)
	if err != nil {
		return Analysis{}, err
	}

	summary := Summarize(rows, schedule)
	logger.Debug("Analysis complete",
		"tasks", len(tasks),
		"mode", p.Mode,
		"hours_per_day", p.HoursPerDay,
		"horizon_days", p.HorizonDays,
		"stress_index", summary.StressIndex,
		"missed_deadlines", summary.MissedDeadlines,
	)

	return Analysis{
		Params:   p,
		Scored:   scored,
		Risk:     rows,
		Forecast: forecast,
		Schedule: schedule,
		Summary:  summary,
		Findings: Findings(rows, forecast),
	}, nil
}

// Report converts the analysis into a history snapshot without the task list.
func (a Analysis) Report() models.Report {
	return models.Report{
		Mode:              a.Params.Mode,
		HoursPerDay:       a.Params.HoursPerDay,
		HorizonDays:       a.Params.HorizonDays,
		TaskCount:         len(a.Risk),
		StressIndex:       a.Summary.StressIndex,
		StressLevel:       string(a.Summary.StressLevel),
		ExpectedLossHours: a.Summary.ExpectedLossHours,
		HighRiskCount:     a.Summary.HighRiskCount,
		MissedDeadlines:   a.Summary.MissedDeadlines,
		Forecast:          a.Forecast,
	}
}
