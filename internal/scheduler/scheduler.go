package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/cadence/internal/models"
)

// remainingTolerance absorbs floating point residue when hours are
// subtracted down to zero.
const remainingTolerance = 1e-9

// minValueDensityHours floors est_hours in the value density ratio.
const minValueDensityHours = 0.1

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Policy names the dispatch order used for a mode.
func Policy(mode models.Mode) string {
	if mode == models.ModeOperational {
		return "highest value density first"
	}
	return "earliest deadline first"
}

type taskState struct {
	row       models.RiskRow
	remaining float64
}

// Build allocates hours day by day, greedily, in a fixed dispatch order:
// value density (priority / est_hours) descending in Operational mode and
// earliest deadline first otherwise. A task never receives hours after its
// deadline day and a day never receives more than dailyCapacity hours.
//
// It fails with *models.MissingFieldError when Operational mode is asked to
// rank rows that were never scored.
func (s *Scheduler) Build(rows []models.RiskRow, dailyCapacity float64, horizonDays int, mode models.Mode) (models.Schedule, error) {
	schedule := models.Schedule{
		Days:          []models.ScheduleDay{},
		Allocations:   []models.AllocationEntry{},
		DeadlineRisks: []models.DeadlineRisk{},
	}

	tasks := make([]*taskState, len(rows))
	for i, row := range rows {
		if mode == models.ModeOperational && !row.Scored {
			return schedule, &models.MissingFieldError{Field: models.ColumnPriorityScore}
		}
		tasks[i] = &taskState{row: row, remaining: math.Max(row.EstHours, 0)}
	}

	sortTasks(tasks, mode)

	capacity := math.Max(dailyCapacity, 0)

	for day := 1; day <= horizonDays; day++ {
		capLeft := capacity
		var allocations []string

		for _, task := range tasks {
			if capLeft <= 0 {
				break
			}
			if task.remaining <= remainingTolerance {
				continue
			}
			if day > task.row.DaysLeft {
				continue
			}

			take := math.Min(capLeft, task.remaining)
			if take <= 0 {
				continue
			}
			task.remaining -= take
			capLeft -= take

			hours := round2(take)
			allocations = append(allocations, fmt.Sprintf("%s (%sh)", task.row.Name, formatHours(hours)))
			schedule.Allocations = append(schedule.Allocations, models.AllocationEntry{
				Task:               task.row.Name,
				Day:                day,
				Hours:              hours,
				FailureProbability: task.row.FailureProbability,
				DeadlineDay:        task.row.DaysLeft,
			})
		}

		used := round2(capacity - capLeft)
		schedule.Days = append(schedule.Days, models.ScheduleDay{
			Day:               day,
			AllocatedHours:    used,
			RemainingCapacity: round2(capLeft),
			Allocations:       strings.Join(allocations, ", "),
			OverloadHours:     round2(math.Max(0, used-capacity)),
		})
	}

	for _, task := range tasks {
		if task.remaining > remainingTolerance {
			schedule.DeadlineRisks = append(schedule.DeadlineRisks, models.DeadlineRisk{
				Task:            task.row.Name,
				UnfinishedHours: round2(task.remaining),
				DeadlineDay:     task.row.DaysLeft,
			})
		}
	}

	return schedule, nil
}

func sortTasks(tasks []*taskState, mode models.Mode) {
	if mode == models.ModeOperational {
		sort.SliceStable(tasks, func(i, j int) bool {
			return valueDensity(tasks[i].row) > valueDensity(tasks[j].row)
		})
		return
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].row, tasks[j].row
		if a.DaysLeft != b.DaysLeft {
			return a.DaysLeft < b.DaysLeft
		}
		return a.EstHours < b.EstHours
	})
}

func valueDensity(row models.RiskRow) float64 {
	return row.PriorityScore / math.Max(row.EstHours, minValueDensityHours)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
