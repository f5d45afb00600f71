package models

import "strings"

// Mode selects the priority weights and the scheduling policy.
type Mode string

const (
	ModeAcademic    Mode = "Academic"
	ModeOperational Mode = "Operational"
	// ModeBalanced is the fallback for any unrecognised mode value.
	ModeBalanced Mode = "Balanced"
)

// ParseMode maps a user supplied mode onto the closed set of modes.
// Unknown values fall back to ModeBalanced instead of failing.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "academic":
		return ModeAcademic
	case "operational":
		return ModeOperational
	default:
		return ModeBalanced
	}
}

func (m Mode) String() string {
	return string(m)
}

type Task struct {
	Name                string  `json:"name" yaml:"name" toml:"name"`
	DaysLeft            int     `json:"days_left" yaml:"days_left" toml:"days_left"`
	EstHours            float64 `json:"est_hours" yaml:"est_hours" toml:"est_hours"`
	StrategicImportance int     `json:"strategic_importance" yaml:"strategic_importance" toml:"strategic_importance"`
	BusinessImpact      int     `json:"business_impact" yaml:"business_impact" toml:"business_impact"`
	DependencyRisk      bool    `json:"dependency_risk" yaml:"dependency_risk" toml:"dependency_risk"`
}

// ScoredTask is a Task annotated by the priority scorer.
type ScoredTask struct {
	Task
	UrgencyScore    float64 `json:"urgency_score"`
	DependencyScore float64 `json:"dependency_score"`
	PriorityScore   float64 `json:"priority_score"`
	// Scored is false when the row was built from a raw task and the
	// priority columns were never computed.
	Scored bool `json:"-"`
}

// Unscored wraps raw tasks without computing priority columns.
func Unscored(tasks []Task) []ScoredTask {
	out := make([]ScoredTask, len(tasks))
	for i, t := range tasks {
		out[i] = ScoredTask{Task: t}
	}
	return out
}
