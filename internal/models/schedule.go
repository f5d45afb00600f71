package models

type ScheduleDay struct {
	Day               int     `json:"day"`
	AllocatedHours    float64 `json:"allocated_hours"`
	RemainingCapacity float64 `json:"remaining_capacity"`
	Allocations       string  `json:"allocations"`
	// OverloadHours is always zero: allocation never exceeds the day's capacity.
	OverloadHours float64 `json:"overload_hours"`
}

// AllocationEntry records hours granted to one task on one day.
type AllocationEntry struct {
	Task               string  `json:"task"`
	Day                int     `json:"day"`
	Hours              float64 `json:"hours"`
	FailureProbability float64 `json:"failure_probability"`
	DeadlineDay        int     `json:"deadline_day"`
}

// DeadlineRisk is a task left with unallocated hours after the horizon.
type DeadlineRisk struct {
	Task            string  `json:"task"`
	UnfinishedHours float64 `json:"unfinished_hours"`
	DeadlineDay     int     `json:"deadline_day"`
}

// Schedule bundles the day ledger, the allocation log and the deadline risks.
type Schedule struct {
	Days          []ScheduleDay     `json:"days"`
	Allocations   []AllocationEntry `json:"allocations"`
	DeadlineRisks []DeadlineRisk    `json:"deadline_risks"`
}
