package models

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Task table column names.
const (
	ColumnName                = "name"
	ColumnDaysLeft            = "days_left"
	ColumnEstHours            = "est_hours"
	ColumnStrategicImportance = "strategic_importance"
	ColumnBusinessImpact      = "business_impact"
	ColumnDependencyRisk      = "dependency_risk"
	ColumnPriorityScore       = "priority_score"
)

// RequiredColumns lists the columns every task table must carry, in the
// order they are checked.
var RequiredColumns = []string{
	ColumnName,
	ColumnDaysLeft,
	ColumnEstHours,
	ColumnStrategicImportance,
	ColumnBusinessImpact,
	ColumnDependencyRisk,
}

// MissingFieldError reports a required column absent from a task table.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Field)
}

// FieldError reports a cell that could not be coerced to its column type.
type FieldError struct {
	Row   int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d: invalid %s: %v", e.Row+1, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Record is one untyped row of a task table.
type Record map[string]any

// Table is an untyped task table as supplied by a collaborator.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable builds a table whose columns are the union of the record keys,
// in first-seen order (keys within a record are taken alphabetically).
func NewTable(records []Record) Table {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return Table{Columns: columns, Rows: records}
}

// HasColumn reports whether the table declares the given column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DecodeTasks converts the table into typed tasks. It fails with a
// *MissingFieldError for the first absent required column and with a
// *FieldError for a cell that cannot be coerced. Numeric range clamping is
// left to the engine.
func DecodeTasks(t Table) ([]Task, error) {
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			return nil, &MissingFieldError{Field: col}
		}
	}

	tasks := make([]Task, 0, len(t.Rows))
	for i, rec := range t.Rows {
		task, err := decodeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decodeRecord(row int, rec Record) (Task, error) {
	var task Task
	var err error

	if task.Name, err = cast.ToStringE(requireValue(rec, ColumnName)); err != nil {
		return Task{}, &FieldError{Row: row, Field: ColumnName, Err: err}
	}
	task.Name = strings.TrimSpace(task.Name)

	ints := []struct {
		field string
		dst   *int
	}{
		{ColumnDaysLeft, &task.DaysLeft},
		{ColumnStrategicImportance, &task.StrategicImportance},
		{ColumnBusinessImpact, &task.BusinessImpact},
	}
	for _, f := range ints {
		v, ok := rec[f.field]
		if !ok || v == nil {
			return Task{}, &FieldError{Row: row, Field: f.field, Err: fmt.Errorf("value is empty")}
		}
		n, err := toInt(v)
		if err != nil {
			return Task{}, &FieldError{Row: row, Field: f.field, Err: err}
		}
		*f.dst = n
	}

	hours, ok := rec[ColumnEstHours]
	if !ok || hours == nil {
		return Task{}, &FieldError{Row: row, Field: ColumnEstHours, Err: fmt.Errorf("value is empty")}
	}
	if task.EstHours, err = cast.ToFloat64E(trimString(hours)); err != nil {
		return Task{}, &FieldError{Row: row, Field: ColumnEstHours, Err: err}
	}
	if math.IsNaN(task.EstHours) || math.IsInf(task.EstHours, 0) {
		return Task{}, &FieldError{Row: row, Field: ColumnEstHours, Err: fmt.Errorf("value %v is not a finite number", task.EstHours)}
	}

	if task.DependencyRisk, err = toBool(rec[ColumnDependencyRisk]); err != nil {
		return Task{}, &FieldError{Row: row, Field: ColumnDependencyRisk, Err: err}
	}

	return task, nil
}

func requireValue(rec Record, field string) any {
	if v, ok := rec[field]; ok && v != nil {
		return v
	}
	return ""
}

func trimString(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// toInt truncates fractional values the way an integer cast of a float column would.
// Floats outside the int32 range saturate instead of wrapping.
func toInt(v any) (int, error) {
	v = trimString(v)
	switch x := v.(type) {
	case string:
		if n, err := cast.ToIntE(x); err == nil {
			return n, nil
		}
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case float64:
		return floatToInt(x)
	case float32:
		return floatToInt(float64(x))
	}
	return cast.ToIntE(v)
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) {
		return 0, fmt.Errorf("value is not a number")
	}
	f = math.Max(math.Min(f, math.MaxInt32), math.MinInt32)
	return int(f), nil
}

func toBool(v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "no", "n", "off":
			return false, nil
		case "yes", "y", "on":
			return true, nil
		}
	}
	return cast.ToBoolE(trimString(v))
}
