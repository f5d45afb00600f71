package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "cadence.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Provider(t *testing.T) {
	storagetest.Run(t, setupTestStore(t))
}

func TestStore_InitKeepsSettings(t *testing.T) {
	store := setupTestStore(t)
	custom := models.Settings{HoursPerDay: 3, HorizonDays: 5, Mode: models.ModeBalanced, ForecastScenarios: []float64{0, 1}}
	if err := store.SaveSettings(custom); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.HoursPerDay != 3 || got.Mode != models.ModeBalanced {
		t.Errorf("Init overwrote settings: %+v", got)
	}
}

func TestStore_Reopen(t *testing.T) {
	store := setupTestStore(t)
	saved, err := store.SaveReport(storagetest.SampleReport("persisted"))
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	store.Close()

	reopened := NewStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetReport(saved.ID)
	if err != nil {
		t.Fatalf("GetReport after reopen failed: %v", err)
	}
	if got.Label != "persisted" || len(got.Forecast) != 2 {
		t.Errorf("unexpected report %+v", got)
	}
}

func TestStore_LoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load should fail before Init")
	}
}
