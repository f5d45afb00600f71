package scheduler

import (
	"errors"
	"math"
	"testing"

	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/risk"
	"github.com/julianstephens/cadence/internal/scoring"
)

func assess(tasks []models.Task, mode models.Mode, capacity float64, horizon int) []models.RiskRow {
	return risk.Assess(scoring.Score(tasks, mode), capacity, horizon)
}

func TestBuild_EDFTwoTasks(t *testing.T) {
	tasks := []models.Task{
		{Name: "A", DaysLeft: 2, EstHours: 5, StrategicImportance: 3, BusinessImpact: 3},
		{Name: "B", DaysLeft: 3, EstHours: 5, StrategicImportance: 3, BusinessImpact: 3},
	}

	schedule, err := New().Build(assess(tasks, models.ModeAcademic, 4, 3), 4, 3, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []models.AllocationEntry{
		{Task: "A", Day: 1, Hours: 4, DeadlineDay: 2},
		{Task: "A", Day: 2, Hours: 1, DeadlineDay: 2},
		{Task: "B", Day: 2, Hours: 3, DeadlineDay: 3},
		{Task: "B", Day: 3, Hours: 2, DeadlineDay: 3},
	}
	if len(schedule.Allocations) != len(want) {
		t.Fatalf("Expected %d allocations, got %d: %+v", len(want), len(schedule.Allocations), schedule.Allocations)
	}
	for i, w := range want {
		got := schedule.Allocations[i]
		if got.Task != w.Task || got.Day != w.Day || got.Hours != w.Hours || got.DeadlineDay != w.DeadlineDay {
			t.Errorf("allocation %d = %+v, want %+v", i, got, w)
		}
	}

	if len(schedule.DeadlineRisks) != 0 {
		t.Errorf("Expected no deadline risks, got %+v", schedule.DeadlineRisks)
	}

	if len(schedule.Days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(schedule.Days))
	}
	if schedule.Days[1].Allocations != "A (1h), B (3h)" {
		t.Errorf("day 2 allocations = %q", schedule.Days[1].Allocations)
	}
	if schedule.Days[2].AllocatedHours != 2 || schedule.Days[2].RemainingCapacity != 2 {
		t.Errorf("day 3 = %+v, want 2h used and 2h left", schedule.Days[2])
	}
}

func TestBuild_AnnotatesFailureProbability(t *testing.T) {
	tasks := []models.Task{{Name: "A", DaysLeft: 1, EstHours: 4, StrategicImportance: 3, BusinessImpact: 3}}
	rows := assess(tasks, models.ModeAcademic, 6, 7)

	schedule, err := New().Build(rows, 6, 7, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.Allocations) != 1 {
		t.Fatalf("Expected 1 allocation, got %d", len(schedule.Allocations))
	}
	if schedule.Allocations[0].FailureProbability != rows[0].FailureProbability {
		t.Errorf("failure probability = %v, want %v", schedule.Allocations[0].FailureProbability, rows[0].FailureProbability)
	}
}

func TestBuild_DeadlinePassedGetsNoHours(t *testing.T) {
	tasks := []models.Task{
		{Name: "Late", DaysLeft: 1, EstHours: 10, StrategicImportance: 1, BusinessImpact: 1},
	}

	schedule, err := New().Build(assess(tasks, models.ModeAcademic, 4, 5), 4, 5, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, a := range schedule.Allocations {
		if a.Day > 1 {
			t.Errorf("task received hours on day %d after its deadline", a.Day)
		}
	}
	if len(schedule.DeadlineRisks) != 1 {
		t.Fatalf("Expected 1 deadline risk, got %d", len(schedule.DeadlineRisks))
	}
	dr := schedule.DeadlineRisks[0]
	if dr.Task != "Late" || dr.UnfinishedHours != 6 || dr.DeadlineDay != 1 {
		t.Errorf("deadline risk = %+v, want Late/6h/day 1", dr)
	}
	// Remaining capacity on later days is left unused
	for _, d := range schedule.Days[1:] {
		if d.AllocatedHours != 0 || d.RemainingCapacity != 4 {
			t.Errorf("day %d = %+v, want untouched capacity", d.Day, d)
		}
	}
}

func TestBuild_DeadlineBeyondHorizonReported(t *testing.T) {
	tasks := []models.Task{
		{Name: "Far", DaysLeft: 10, EstHours: 12, StrategicImportance: 2, BusinessImpact: 2},
	}

	schedule, err := New().Build(assess(tasks, models.ModeAcademic, 3, 2), 3, 2, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.DeadlineRisks) != 1 {
		t.Fatalf("Expected 1 deadline risk, got %d", len(schedule.DeadlineRisks))
	}
	if schedule.DeadlineRisks[0].UnfinishedHours != 6 || schedule.DeadlineRisks[0].DeadlineDay != 10 {
		t.Errorf("deadline risk = %+v, want 6h unfinished due day 10", schedule.DeadlineRisks[0])
	}
}

func TestBuild_OperationalValueDensityOrder(t *testing.T) {
	tasks := []models.Task{
		// Low value, long
		{Name: "Filler", DaysLeft: 5, EstHours: 8, StrategicImportance: 1, BusinessImpact: 1},
		// High value, short
		{Name: "Launch", DaysLeft: 5, EstHours: 2, StrategicImportance: 5, BusinessImpact: 5},
	}

	schedule, err := New().Build(assess(tasks, models.ModeOperational, 4, 5), 4, 5, models.ModeOperational)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.Allocations) == 0 || schedule.Allocations[0].Task != "Launch" {
		t.Fatalf("Expected Launch to be dispatched first, got %+v", schedule.Allocations)
	}
	if schedule.Days[0].Allocations != "Launch (2h), Filler (2h)" {
		t.Errorf("day 1 allocations = %q", schedule.Days[0].Allocations)
	}
}

func TestBuild_OperationalRequiresScores(t *testing.T) {
	rows := risk.AssessTasks([]models.Task{{Name: "A", DaysLeft: 2, EstHours: 1, StrategicImportance: 3, BusinessImpact: 3}}, 4, 3)

	_, err := New().Build(rows, 4, 3, models.ModeOperational)
	var mfe *models.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("Expected MissingFieldError, got %v", err)
	}
	if mfe.Field != models.ColumnPriorityScore {
		t.Errorf("Field = %q, want %q", mfe.Field, models.ColumnPriorityScore)
	}

	// Deadline-ordered modes never look at the priority score
	if _, err := New().Build(rows, 4, 3, models.ModeBalanced); err != nil {
		t.Errorf("Balanced mode should accept unscored rows: %v", err)
	}
}

func TestBuild_DuplicateNamesKeepSeparateState(t *testing.T) {
	tasks := []models.Task{
		{Name: "Report", DaysLeft: 1, EstHours: 2, StrategicImportance: 3, BusinessImpact: 3},
		{Name: "Report", DaysLeft: 1, EstHours: 2, StrategicImportance: 3, BusinessImpact: 3},
	}

	schedule, err := New().Build(assess(tasks, models.ModeAcademic, 8, 1), 8, 1, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if schedule.Days[0].AllocatedHours != 4 {
		t.Errorf("allocated = %v, want 4 (both rows scheduled)", schedule.Days[0].AllocatedHours)
	}
}

func TestBuild_EmptyAndDegenerateInputs(t *testing.T) {
	s := New()

	schedule, err := s.Build(nil, 6, 3, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.Days) != 3 || len(schedule.Allocations) != 0 || len(schedule.DeadlineRisks) != 0 {
		t.Errorf("unexpected schedule for empty input: %+v", schedule)
	}

	tasks := []models.Task{{Name: "A", DaysLeft: 2, EstHours: 3, StrategicImportance: 3, BusinessImpact: 3}}
	schedule, err = s.Build(assess(tasks, models.ModeAcademic, 1, 2), 0, 2, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.Allocations) != 0 {
		t.Errorf("zero capacity should grant no hours, got %+v", schedule.Allocations)
	}
	if len(schedule.DeadlineRisks) != 1 || schedule.DeadlineRisks[0].UnfinishedHours != 3 {
		t.Errorf("deadline risks = %+v, want A with 3h", schedule.DeadlineRisks)
	}

	schedule, err = s.Build(assess(tasks, models.ModeAcademic, 1, 2), 4, 0, models.ModeAcademic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(schedule.Days) != 0 {
		t.Errorf("zero horizon should produce no days, got %d", len(schedule.Days))
	}
}

func TestBuild_ConservationProperties(t *testing.T) {
	tasks := []models.Task{
		{Name: "T1", DaysLeft: 1, EstHours: 3.5, StrategicImportance: 2, BusinessImpact: 4},
		{Name: "T2", DaysLeft: 2, EstHours: 7.25, StrategicImportance: 5, BusinessImpact: 5, DependencyRisk: true},
		{Name: "T3", DaysLeft: 3, EstHours: 0, StrategicImportance: 1, BusinessImpact: 1},
		{Name: "T4", DaysLeft: 4, EstHours: 11, StrategicImportance: 3, BusinessImpact: 2},
		{Name: "T5", DaysLeft: 9, EstHours: 6.5, StrategicImportance: 4, BusinessImpact: 3},
		{Name: "T6", DaysLeft: 2, EstHours: 1.75, StrategicImportance: 1, BusinessImpact: 5},
	}
	const capacity = 4.5
	const horizon = 6

	for _, mode := range []models.Mode{models.ModeAcademic, models.ModeOperational, models.ModeBalanced} {
		t.Run(mode.String(), func(t *testing.T) {
			schedule, err := New().Build(assess(tasks, mode, capacity, horizon), capacity, horizon, mode)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			perDay := make(map[int]float64)
			perTask := make(map[string]float64)
			for _, a := range schedule.Allocations {
				perDay[a.Day] += a.Hours
				perTask[a.Task] += a.Hours
				if a.Hours <= 0 {
					t.Errorf("allocation with non-positive hours: %+v", a)
				}
				if a.Day > a.DeadlineDay {
					t.Errorf("allocation after deadline: %+v", a)
				}
			}
			for day, hours := range perDay {
				if hours > capacity+1e-6 {
					t.Errorf("day %d allocated %v > capacity %v", day, hours, capacity)
				}
			}
			for _, d := range schedule.Days {
				if d.OverloadHours != 0 {
					t.Errorf("day %d overload = %v, want 0", d.Day, d.OverloadHours)
				}
			}

			risks := make(map[string]int)
			for _, dr := range schedule.DeadlineRisks {
				risks[dr.Task]++
			}

			for _, task := range tasks {
				allocated := perTask[task.Name]
				if allocated > task.EstHours+1e-6 {
					t.Errorf("%s allocated %v > est %v", task.Name, allocated, task.EstHours)
				}
				unfinished := task.EstHours - allocated
				if task.DaysLeft <= horizon && unfinished > 1e-6 {
					if risks[task.Name] != 1 {
						t.Errorf("%s unfinished %v but appears %d times in deadline risks", task.Name, unfinished, risks[task.Name])
					}
					for _, dr := range schedule.DeadlineRisks {
						if dr.Task == task.Name && math.Abs(dr.UnfinishedHours-unfinished) > 0.01 {
							t.Errorf("%s unfinished = %v, want %v", task.Name, dr.UnfinishedHours, unfinished)
						}
					}
				}
				if unfinished <= 1e-6 && risks[task.Name] != 0 {
					t.Errorf("%s finished but reported as deadline risk", task.Name)
				}
			}
		})
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		{Name: "B", DaysLeft: 3, EstHours: 2, StrategicImportance: 3, BusinessImpact: 3},
		{Name: "A", DaysLeft: 1, EstHours: 2, StrategicImportance: 3, BusinessImpact: 3},
	}
	rows := assess(tasks, models.ModeAcademic, 4, 3)
	before := append([]models.RiskRow(nil), rows...)

	if _, err := New().Build(rows, 4, 3, models.ModeAcademic); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range rows {
		if rows[i] != before[i] {
			t.Errorf("row %d was modified", i)
		}
	}
}

func TestPolicy(t *testing.T) {
	if Policy(models.ModeOperational) != "highest value density first" {
		t.Errorf("unexpected operational policy %q", Policy(models.ModeOperational))
	}
	for _, m := range []models.Mode{models.ModeAcademic, models.ModeBalanced} {
		if Policy(m) != "earliest deadline first" {
			t.Errorf("unexpected policy for %s: %q", m, Policy(m))
		}
	}
}
