package storage

import (
	"errors"

	"github.com/julianstephens/cadence/internal/models"
)

var (
	// ErrReportNotFound is returned when no report matches the requested id.
	ErrReportNotFound = errors.New("report not found")
	// ErrSettingsNotFound is returned by GetSettings on a store with no settings rows.
	ErrSettingsNotFound = errors.New("settings not found")
)

// Provider persists planning defaults and report snapshots. Task lists are
// never stored; every analysis reads its tasks from a file.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Reports
	// SaveReport stores a snapshot, assigning ID and CreatedAt when empty,
	// and returns the stored report.
	SaveReport(models.Report) (models.Report, error)
	GetReport(id string) (models.Report, error)
	// ListReports returns reports newest first.
	ListReports(includeDeleted bool) ([]models.Report, error)
	DeleteReport(id string) error
	RestoreReport(id string) error

	// Utils
	GetConfigPath() string
}
