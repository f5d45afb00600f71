package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/scheduler"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// NewTable returns a bordered table with the given header row.
func NewTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func Title(s string) string {
	return titleStyle.Render(s)
}

func Muted(s string) string {
	return mutedStyle.Render(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func pct(p float64) string {
	return fixed(p*100, 1) + "%"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// DayLabel renders schedule day n relative to start (day 1 is start).
func DayLabel(day int, start time.Time) string {
	if start.IsZero() {
		return strconv.Itoa(day)
	}
	date := start.AddDate(0, 0, day-1)
	return fmt.Sprintf("%d (%s %s)", day, date.Format("Mon"), date.Format(constants.DateFormat))
}

func RenderScored(w io.Writer, rows []models.ScoredTask) {
	t := NewTable("Task", "Days", "Hours", "Strategic", "Impact", "Dependency", "Urgency", "Priority")
	for _, r := range rows {
		t.Row(r.Name, strconv.Itoa(r.DaysLeft), num(r.EstHours),
			strconv.Itoa(r.StrategicImportance), strconv.Itoa(r.BusinessImpact), yesNo(r.DependencyRisk),
			fixed(r.UrgencyScore, 3), fixed(r.PriorityScore, 3))
	}
	fmt.Fprintln(w, t.String())
}

func RenderRisk(w io.Writer, rows []models.RiskRow) {
	t := NewTable("Task", "Due", "Hours", "Capacity", "Slack", "Competition", "Failure", "Impact", "Exp. loss")
	for _, r := range rows {
		t.Row(r.Name, strconv.Itoa(r.DaysLeft), num(r.EstHours),
			fixed(r.CapacityBeforeDeadline, 1), fixed(r.SlackHours, 1), fixed(r.CompetitionPressure, 2),
			pct(r.FailureProbability), fixed(r.ImpactWeight, 2), fixed(r.ExpectedLossHours, 2))
	}
	fmt.Fprintln(w, t.String())
}

func RenderSchedule(w io.Writer, s models.Schedule, mode models.Mode, start time.Time) {
	fmt.Fprintf(w, "%s %s\n", Title("Schedule"), Muted("("+scheduler.Policy(mode)+")"))

	t := NewTable("Day", "Allocated", "Free", "Work")
	for _, d := range s.Days {
		work := d.Allocations
		if work == "" {
			work = "-"
		}
		t.Row(DayLabel(d.Day, start), num(d.AllocatedHours), num(d.RemainingCapacity), work)
	}
	fmt.Fprintln(w, t.String())

	if len(s.DeadlineRisks) == 0 {
		fmt.Fprintln(w, "Every task fits before its deadline.")
		return
	}
	fmt.Fprintln(w, Title("Deadline risks"))
	risks := NewTable("Task", "Unfinished hours", "Due day")
	for _, r := range s.DeadlineRisks {
		risks.Row(r.Task, num(r.UnfinishedHours), DayLabel(r.DeadlineDay, start))
	}
	fmt.Fprintln(w, risks.String())
}

func RenderForecast(w io.Writer, rows []models.ForecastRow) {
	t := NewTable("Hours/day", "Delta", "Stress", "Exp. loss", "High risk")
	for _, r := range rows {
		delta := num(r.CapacityDelta)
		if r.CapacityDelta > 0 {
			delta = "+" + delta
		}
		t.Row(num(r.CapacityHoursPerDay), delta, fixed(r.StressIndex, 1), fixed(r.ExpectedLossHours, 1), fixed(r.HighRiskTasksPct, 1)+"%")
	}
	fmt.Fprintln(w, t.String())
}

func RenderSummary(w io.Writer, s engine.Summary, p engine.Params) {
	fmt.Fprintf(w, "%s %s\n", Title("Workload"),
		Muted(fmt.Sprintf("(%s mode, %s h/day, %d days)", p.Mode, num(p.HoursPerDay), p.HorizonDays)))
	fmt.Fprintf(w, "  Tasks:             %d\n", s.TaskCount)
	fmt.Fprintf(w, "  Stress index:      %s (%s)\n", fixed(s.StressIndex, 1), s.StressLevel)
	fmt.Fprintf(w, "  Expected loss:     %s h\n", fixed(s.ExpectedLossHours, 1))
	fmt.Fprintf(w, "  High-risk tasks:   %d\n", s.HighRiskCount)
	fmt.Fprintf(w, "  Missed deadlines:  %d\n", s.MissedDeadlines)
}

func RenderFindings(w io.Writer, findings []engine.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(w, Title("Findings"))
	for _, f := range findings {
		fmt.Fprintf(w, "  - %s\n", DescribeFinding(f))
	}
}

// DescribeFinding renders a finding as one line of text.
func DescribeFinding(f engine.Finding) string {
	names := strings.Join(f.Tasks, ", ")
	switch f.Kind {
	case engine.FindingRiskConcentration:
		return fmt.Sprintf("Risk is concentrated in a few tasks (probability spread %s).", fixed(f.Value, 2))
	case engine.FindingDiffuseRisk:
		return fmt.Sprintf("Risk is spread evenly across tasks (mean failure probability %s).", pct(f.Value))
	case engine.FindingHighestConsequence:
		return fmt.Sprintf("Largest expected loss: %s, %s h at %s failure probability.", names, fixed(f.Value, 1), pct(f.Probability))
	case engine.FindingHighRiskTasks:
		return fmt.Sprintf("High risk (>= %s): %s.", pct(constants.HighRiskThreshold), names)
	case engine.FindingModerateRiskTasks:
		return fmt.Sprintf("Moderate risk: %s.", names)
	case engine.FindingDropCandidates:
		return fmt.Sprintf("Likely to fail with little impact, consider dropping: %s.", names)
	case engine.FindingCapacitySensitivity:
		return fmt.Sprintf("One more hour per day lowers stress by %s points.", fixed(f.Value, 1))
	default:
		return string(f.Kind)
	}
}
