package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
)

func (s *Store) SaveReport(report models.Report) (models.Report, error) {
	report = storage.PrepareReport(report)
	args, err := storage.ReportArgs(report)
	if err != nil {
		return models.Report{}, err
	}

	_, err = s.db.Exec(`INSERT INTO reports (`+storage.ReportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			source = EXCLUDED.source,
			deleted_at = NULL`, args...)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

func (s *Store) GetReport(id string) (models.Report, error) {
	row := s.db.QueryRow(`SELECT `+storage.ReportColumns+` FROM reports WHERE id = $1 AND deleted_at IS NULL`, id)
	report, err := storage.ScanReport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, fmt.Errorf("%w: %s", storage.ErrReportNotFound, id)
	}
	return report, err
}

func (s *Store) ListReports(includeDeleted bool) ([]models.Report, error) {
	query := `SELECT ` + storage.ReportColumns + ` FROM reports`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := storage.ScanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Store) DeleteReport(id string) error {
	res, err := s.db.Exec("UPDATE reports SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", storage.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrReportNotFound, id)
	}
	return nil
}

func (s *Store) RestoreReport(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM reports WHERE id = $1", id).Scan(&deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrReportNotFound, id)
	}
	if err != nil {
		return err
	}
	if !deletedAt.Valid {
		return fmt.Errorf("report is not deleted: %s", id)
	}

	_, err = s.db.Exec("UPDATE reports SET deleted_at = NULL WHERE id = $1", id)
	return err
}
