package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cadence/internal/models"
)

// TimestampFormat is a fixed width RFC 3339 layout, so stored timestamps
// sort lexically in time order.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// PrepareReport assigns an id and creation time to a report about to be
// stored. Existing values are kept, and deleted_at is always cleared.
func PrepareReport(r models.Report) models.Report {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = Now()
	}
	if r.Forecast == nil {
		r.Forecast = []models.ForecastRow{}
	}
	r.DeletedAt = nil
	return r
}

// Now returns the current UTC time in TimestampFormat.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// ReportColumns is the column list shared by the SQL backends, in the order
// of ReportArgs and ScanReport.
const ReportColumns = `id, created_at, label, source, mode, hours_per_day, horizon_days,
	task_count, stress_index, stress_level, expected_loss_hours, high_risk_count,
	missed_deadlines, forecast_json, deleted_at`

// ReportArgs returns the insert arguments for ReportColumns.
func ReportArgs(r models.Report) ([]any, error) {
	forecast, err := json.Marshal(r.Forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast: %w", err)
	}
	var deletedAt sql.NullString
	if r.DeletedAt != nil {
		deletedAt = sql.NullString{String: *r.DeletedAt, Valid: true}
	}
	return []any{
		r.ID, r.CreatedAt, r.Label, r.Source, r.Mode.String(), r.HoursPerDay, r.HorizonDays,
		r.TaskCount, r.StressIndex, r.StressLevel, r.ExpectedLossHours, r.HighRiskCount,
		r.MissedDeadlines, string(forecast), deletedAt,
	}, nil
}

// ScanReport reads one row selected with ReportColumns.
func ScanReport(scan func(dest ...any) error) (models.Report, error) {
	var r models.Report
	var mode, forecast string
	var deletedAt sql.NullString
	err := scan(&r.ID, &r.CreatedAt, &r.Label, &r.Source, &mode, &r.HoursPerDay, &r.HorizonDays,
		&r.TaskCount, &r.StressIndex, &r.StressLevel, &r.ExpectedLossHours, &r.HighRiskCount,
		&r.MissedDeadlines, &forecast, &deletedAt)
	if err != nil {
		return models.Report{}, err
	}

	r.Mode = models.ParseMode(mode)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.String
	}
	if err := json.Unmarshal([]byte(forecast), &r.Forecast); err != nil {
		return models.Report{}, fmt.Errorf("failed to decode forecast of report %s: %w", r.ID, err)
	}
	return r, nil
}
