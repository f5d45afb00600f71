// Package taskfile reads task tables from CSV, JSON, YAML and TOML files.
//
// Files are decoded into an untyped models.Table; column checks and type
// coercion happen later in models.DecodeTasks so every format reports the
// same errors.
package taskfile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/cadence/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// tasksKey wraps the task list in JSON, YAML and TOML documents.
const tasksKey = "tasks"

// FormatFor picks the decoder from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported task file %q: expected .csv, .json, .yaml, .yml or .toml", filepath.Base(path))
	}
}

// Load reads the task table stored at path.
func Load(path string) (models.Table, error) {
	format, err := FormatFor(path)
	if err != nil {
		return models.Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open task file: %w", err)
	}
	defer f.Close()

	table, err := Decode(f, format)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// LoadTasks reads path and converts it into typed tasks.
func LoadTasks(path string) ([]models.Task, error) {
	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	return models.DecodeTasks(table)
}

func Decode(r io.Reader, format Format) (models.Table, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r)
	case FormatJSON:
		var doc any
		dec := json.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return models.Table{}, fmt.Errorf("invalid JSON: %w", err)
		}
		return tableFrom(doc)
	case FormatYAML:
		var doc any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err == io.EOF {
				return models.NewTable(nil), nil
			}
			return models.Table{}, fmt.Errorf("invalid YAML: %w", err)
		}
		return tableFrom(doc)
	case FormatTOML:
		var doc map[string]any
		if err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return models.Table{}, fmt.Errorf("invalid TOML: %w", err)
		}
		if _, ok := doc[tasksKey]; !ok {
			return models.NewTable(nil), nil
		}
		return tableFrom(doc)
	default:
		return models.Table{}, fmt.Errorf("unsupported format %q", format)
	}
}

// decodeCSV keeps the header order as the column order. Empty cells become
// nil so they surface as missing values rather than zeroes.
func decodeCSV(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.NewTable(nil), nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("invalid CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("invalid CSV: %w", err)
	}

	rows := make([]models.Record, 0, len(records))
	for _, rec := range records {
		row := make(models.Record, len(columns))
		for i, col := range columns {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return models.Table{Columns: columns, Rows: rows}, nil
}

// tableFrom accepts either a bare list of task objects or a document with
// a top-level "tasks" list.
func tableFrom(doc any) (models.Table, error) {
	if m, ok := doc.(map[string]any); ok {
		list, found := m[tasksKey]
		if !found {
			return models.Table{}, fmt.Errorf("expected a list of tasks or a %q key", tasksKey)
		}
		doc = list
	}
	if doc == nil {
		return models.NewTable(nil), nil
	}

	items, ok := asList(doc)
	if !ok {
		return models.Table{}, fmt.Errorf("expected a list of tasks, got %T", doc)
	}

	records := make([]models.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return models.Table{}, fmt.Errorf("task %d: expected an object, got %T", i+1, item)
		}
		records = append(records, models.Record(obj))
	}
	return models.NewTable(records), nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}
