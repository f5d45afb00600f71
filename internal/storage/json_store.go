package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/cadence/internal/models"
)

// jsonDocument is the on-disk layout of a JSON store.
type jsonDocument struct {
	Version  int                      `json:"version"`
	Settings models.Settings          `json:"settings"`
	Reports  map[string]models.Report `json:"reports"`
}

// JSONStore keeps settings and reports in a single JSON file. It is meant
// for portability and tests; every write rewrites the whole file.
//
// JSONStore is not safe for concurrent use, and several cadence processes
// sharing one file may lose writes.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &jsonDocument{
		Version:  1,
		Settings: DefaultSettings(),
		Reports:  make(map[string]models.Report),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'cadence init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &jsonDocument{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if s.doc.Reports == nil {
		s.doc.Reports = make(map[string]models.Report)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) SaveReport(report models.Report) (models.Report, error) {
	if err := s.loaded(); err != nil {
		return models.Report{}, err
	}
	report = PrepareReport(report)
	s.doc.Reports[report.ID] = report
	return report, s.save()
}

func (s *JSONStore) GetReport(id string) (models.Report, error) {
	if err := s.loaded(); err != nil {
		return models.Report{}, err
	}
	report, ok := s.doc.Reports[id]
	if !ok || report.DeletedAt != nil {
		return models.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return report, nil
}

func (s *JSONStore) ListReports(includeDeleted bool) ([]models.Report, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(s.doc.Reports))
	for _, r := range s.doc.Reports {
		if r.DeletedAt != nil && !includeDeleted {
			continue
		}
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt != reports[j].CreatedAt {
			return reports[i].CreatedAt > reports[j].CreatedAt
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}

func (s *JSONStore) DeleteReport(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	report, ok := s.doc.Reports[id]
	if !ok || report.DeletedAt != nil {
		return fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	now := Now()
	report.DeletedAt = &now
	s.doc.Reports[id] = report
	return s.save()
}

func (s *JSONStore) RestoreReport(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	report, ok := s.doc.Reports[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if report.DeletedAt == nil {
		return fmt.Errorf("report is not deleted: %s", id)
	}
	report.DeletedAt = nil
	s.doc.Reports[id] = report
	return s.save()
}

// GetConfigPath returns the path of the JSON file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
