// Package storagetest holds the behaviour every storage.Provider must share.
// Backend packages call Run from their own tests against a freshly
// initialised store.
package storagetest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

// SampleReport returns a report as produced by an analysis run.
func SampleReport(label string) models.Report {
	return models.Report{
		Label:             label,
		Source:            "tasks.csv",
		Mode:              models.ModeOperational,
		HoursPerDay:       5.5,
		HorizonDays:       10,
		TaskCount:         4,
		StressIndex:       61.4,
		StressLevel:       "elevated",
		ExpectedLossHours: 7.2,
		HighRiskCount:     2,
		MissedDeadlines:   1,
		Forecast: []models.ForecastRow{
			{CapacityHoursPerDay: 4.5, CapacityDelta: -1, StressIndex: 70.1, ExpectedLossHours: 9.3, HighRiskTasksPct: 50},
			{CapacityHoursPerDay: 5.5, CapacityDelta: 0, StressIndex: 61.4, ExpectedLossHours: 7.2, HighRiskTasksPct: 50},
		},
	}
}

// Run exercises settings and report history on an initialised provider.
func Run(t *testing.T, p storage.Provider) {
	t.Run("DefaultSettings", func(t *testing.T) {
		settings, err := p.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if settings.HoursPerDay != constants.DefaultHoursPerDay || settings.HorizonDays != constants.DefaultHorizonDays {
			t.Errorf("unexpected defaults %+v", settings)
		}
		if settings.Mode != models.ModeAcademic {
			t.Errorf("default mode = %v, want Academic", settings.Mode)
		}
		if !reflect.DeepEqual(settings.ForecastScenarios, []float64{-2, -1, 0, 1, 2}) {
			t.Errorf("default scenarios = %v", settings.ForecastScenarios)
		}
	})

	t.Run("SaveSettings", func(t *testing.T) {
		want := models.Settings{
			HoursPerDay:       7.5,
			HorizonDays:       14,
			Mode:              models.ModeOperational,
			ForecastScenarios: []float64{-1.5, 0, 2},
		}
		if err := p.SaveSettings(want); err != nil {
			t.Fatalf("SaveSettings failed: %v", err)
		}
		got, err := p.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GetSettings() = %+v, want %+v", got, want)
		}
	})

	t.Run("ReportLifecycle", func(t *testing.T) {
		saved, err := p.SaveReport(SampleReport("baseline"))
		if err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		if saved.ID == "" || saved.CreatedAt == "" {
			t.Fatalf("SaveReport did not assign id/created_at: %+v", saved)
		}

		got, err := p.GetReport(saved.ID)
		if err != nil {
			t.Fatalf("GetReport failed: %v", err)
		}
		if !reflect.DeepEqual(got, saved) {
			t.Errorf("GetReport() = %+v\nwant %+v", got, saved)
		}

		if err := p.DeleteReport(saved.ID); err != nil {
			t.Fatalf("DeleteReport failed: %v", err)
		}
		if _, err := p.GetReport(saved.ID); !errors.Is(err, storage.ErrReportNotFound) {
			t.Errorf("deleted report should be hidden, got %v", err)
		}
		if err := p.DeleteReport(saved.ID); !errors.Is(err, storage.ErrReportNotFound) {
			t.Errorf("deleting twice should fail with ErrReportNotFound, got %v", err)
		}

		all, err := p.ListReports(true)
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		found := false
		for _, r := range all {
			if r.ID == saved.ID {
				found = r.DeletedAt != nil
			}
		}
		if !found {
			t.Error("ListReports(true) should include the deleted report with deleted_at set")
		}

		if err := p.RestoreReport(saved.ID); err != nil {
			t.Fatalf("RestoreReport failed: %v", err)
		}
		if _, err := p.GetReport(saved.ID); err != nil {
			t.Errorf("restored report should be visible: %v", err)
		}
		if err := p.RestoreReport(saved.ID); err == nil {
			t.Error("restoring a live report should fail")
		}
	})

	t.Run("ListReportsNewestFirst", func(t *testing.T) {
		older := SampleReport("older")
		older.CreatedAt = "2026-01-01T09:00:00.000000Z"
		newer := SampleReport("newer")
		newer.CreatedAt = "2026-03-01T09:00:00.000000Z"

		olderSaved, err := p.SaveReport(older)
		if err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		newerSaved, err := p.SaveReport(newer)
		if err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		if err := p.DeleteReport(olderSaved.ID); err != nil {
			t.Fatalf("DeleteReport failed: %v", err)
		}

		live, err := p.ListReports(false)
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		for _, r := range live {
			if r.ID == olderSaved.ID {
				t.Error("ListReports(false) returned a deleted report")
			}
		}

		all, err := p.ListReports(true)
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		pos := map[string]int{}
		for i, r := range all {
			pos[r.ID] = i
		}
		if pos[newerSaved.ID] > pos[olderSaved.ID] {
			t.Error("ListReports should order newest first")
		}
	})

	t.Run("UnknownReport", func(t *testing.T) {
		if _, err := p.GetReport("missing"); !errors.Is(err, storage.ErrReportNotFound) {
			t.Errorf("GetReport(missing) = %v, want ErrReportNotFound", err)
		}
		if err := p.RestoreReport("missing"); !errors.Is(err, storage.ErrReportNotFound) {
			t.Errorf("RestoreReport(missing) = %v, want ErrReportNotFound", err)
		}
	})
}
