package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/cadence/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTaskName ConflictType = "duplicate_task_name"
	ConflictEmptyTaskName     ConflictType = "empty_task_name"
	ConflictPastDeadline      ConflictType = "past_deadline"
	ConflictNegativeEstimate  ConflictType = "negative_estimate"
	ConflictRatingOutOfRange  ConflictType = "rating_out_of_range"
	ConflictBeyondHorizon     ConflictType = "deadline_beyond_horizon"
	ConflictOvercommitted     ConflictType = "overcommitted"
)

// Conflict is a warning about the task table. None of them stop the engine:
// out of range values are clamped and the rest only affect interpretation.
type Conflict struct {
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Items       []string     `json:"items,omitempty"` // task names involved
	Rows        []int        `json:"rows,omitempty"`  // zero-based row positions
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks task tables for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateTasks checks tasks against the planning window of hoursPerDay
// hours over horizonDays days.
func (v *Validator) ValidateTasks(tasks []models.Task, hoursPerDay float64, horizonDays int) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	// Duplicate names are legal but ambiguous in the allocation log
	nameRows := make(map[string][]int)
	var names []string
	for i, task := range tasks {
		if task.Name == "" {
			continue
		}
		if _, ok := nameRows[task.Name]; !ok {
			names = append(names, task.Name)
		}
		nameRows[task.Name] = append(nameRows[task.Name], i)
	}
	sort.Strings(names)
	for _, name := range names {
		if rows := nameRows[name]; len(rows) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTaskName,
				Description: fmt.Sprintf("Duplicate task name: \"%s\" (rows: %v)", name, displayRows(rows)),
				Items:       []string{name},
				Rows:        rows,
			})
		}
	}

	var totalHours float64
	for i, task := range tasks {
		label := taskLabel(task, i)

		if task.Name == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyTaskName,
				Description: fmt.Sprintf("Row %d has an empty task name", i+1),
				Rows:        []int{i},
			})
		}

		if task.DaysLeft < 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPastDeadline,
				Description: fmt.Sprintf("Task %s has days_left %d; it is treated as due in 1 day", label, task.DaysLeft),
				Items:       []string{task.Name},
				Rows:        []int{i},
			})
		}

		if task.EstHours < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeEstimate,
				Description: fmt.Sprintf("Task %s has negative est_hours %g; it is treated as 0", label, task.EstHours),
				Items:       []string{task.Name},
				Rows:        []int{i},
			})
		} else {
			totalHours += task.EstHours
		}

		for _, rating := range []struct {
			field string
			value int
		}{
			{models.ColumnStrategicImportance, task.StrategicImportance},
			{models.ColumnBusinessImpact, task.BusinessImpact},
		} {
			if rating.value < 1 || rating.value > 5 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictRatingOutOfRange,
					Description: fmt.Sprintf("Task %s has %s %d outside 1-5", label, rating.field, rating.value),
					Items:       []string{task.Name},
					Rows:        []int{i},
				})
			}
		}

		if horizonDays > 0 && task.DaysLeft > horizonDays {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBeyondHorizon,
				Description: fmt.Sprintf("Task %s is due on day %d, after the %d-day horizon; unfinished hours may be reported as deadline risk", label, task.DaysLeft, horizonDays),
				Items:       []string{task.Name},
				Rows:        []int{i},
			})
		}
	}

	available := hoursPerDay * float64(max(horizonDays, 0))
	if len(tasks) > 0 && totalHours > available {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictOvercommitted,
			Description: fmt.Sprintf("Overcommitted: %.1f hours of work against %.1f hours of capacity (%.1f h/day x %d days)",
				totalHours, available, hoursPerDay, horizonDays),
		})
	}

	return result
}

func taskLabel(task models.Task, row int) string {
	if task.Name == "" {
		return fmt.Sprintf("on row %d", row+1)
	}
	return fmt.Sprintf("\"%s\"", task.Name)
}

func displayRows(rows []int) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r + 1
	}
	return out
}
