package taskfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/julianstephens/cadence/internal/models"
)

var wantTasks = []models.Task{
	{Name: "Thesis draft", DaysLeft: 3, EstHours: 14, StrategicImportance: 5, BusinessImpact: 4, DependencyRisk: true},
	{Name: "Lab report", DaysLeft: 1, EstHours: 4.5, StrategicImportance: 3, BusinessImpact: 2, DependencyRisk: false},
}

const csvFixture = `name,days_left,est_hours,strategic_importance,business_impact,dependency_risk
Thesis draft,3,14,5,4,yes
Lab report,1,4.5,3,2,no
`

const jsonFixture = `[
  {"name": "Thesis draft", "days_left": 3, "est_hours": 14, "strategic_importance": 5, "business_impact": 4, "dependency_risk": true},
  {"name": "Lab report", "days_left": 1, "est_hours": 4.5, "strategic_importance": 3, "business_impact": 2, "dependency_risk": false}
]`

const jsonWrappedFixture = `{"tasks": ` + jsonFixture + `}`

const yamlFixture = `tasks:
  - name: Thesis draft
    days_left: 3
    est_hours: 14
    strategic_importance: 5
    business_impact: 4
    dependency_risk: true
  - name: Lab report
    days_left: 1
    est_hours: 4.5
    strategic_importance: 3
    business_impact: 2
    dependency_risk: false
`

const tomlFixture = `[[tasks]]
name = "Thesis draft"
days_left = 3
est_hours = 14
strategic_importance = 5
business_impact = 4
dependency_risk = true

[[tasks]]
name = "Lab report"
days_left = 1
est_hours = 4.5
strategic_importance = 3
business_impact = 2
dependency_risk = false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadTasks_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"tasks.csv", csvFixture},
		{"tasks.json", jsonFixture},
		{"wrapped.json", jsonWrappedFixture},
		{"tasks.yaml", yamlFixture},
		{"tasks.YML", yamlFixture},
		{"tasks.toml", tomlFixture},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tasks, err := LoadTasks(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadTasks failed: %v", err)
			}
			if !reflect.DeepEqual(tasks, wantTasks) {
				t.Errorf("tasks mismatch:\n got %+v\nwant %+v", tasks, wantTasks)
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.csv", FormatCSV, false},
		{"dir/a.JSON", FormatJSON, false},
		{"a.yml", FormatYAML, false},
		{"a.toml", FormatTOML, false},
		{"a.xlsx", "", true},
		{"tasks", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFor(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeCSV_KeepsHeaderOrder(t *testing.T) {
	table, err := Decode(strings.NewReader("\ufeffest_hours, name\n2,A\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"est_hours", "name"}) {
		t.Errorf("columns = %v", table.Columns)
	}
}

func TestDecodeCSV_EmptyCell(t *testing.T) {
	content := "name,days_left,est_hours,strategic_importance,business_impact,dependency_risk\nA,2,,3,3,\n"
	table, err := Decode(strings.NewReader(content), FormatCSV)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if table.Rows[0]["est_hours"] != nil {
		t.Errorf("empty cell should decode to nil, got %#v", table.Rows[0]["est_hours"])
	}

	_, err = models.DecodeTasks(table)
	var fe *models.FieldError
	if !errors.As(err, &fe) || fe.Field != "est_hours" {
		t.Errorf("expected FieldError on est_hours, got %v", err)
	}
}

func TestLoadTasks_NaNHours(t *testing.T) {
	content := `tasks:
  - name: bad
    days_left: 1
    est_hours: .nan
    strategic_importance: 3
    business_impact: 3
    dependency_risk: false
  - name: good
    days_left: 5
    est_hours: 2
    strategic_importance: 3
    business_impact: 3
    dependency_risk: false
`
	_, err := LoadTasks(writeFile(t, "tasks.yaml", content))

	var fe *models.FieldError
	if !errors.As(err, &fe) || fe.Field != "est_hours" || fe.Row != 0 {
		t.Errorf("expected FieldError on row 0 est_hours, got %v", err)
	}
}

func TestLoadTasks_MissingColumn(t *testing.T) {
	content := "name,days_left,est_hours,strategic_importance,dependency_risk\nA,1,4,3,no\n"
	_, err := LoadTasks(writeFile(t, "tasks.csv", content))

	var mfe *models.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mfe.Field != "business_impact" {
		t.Errorf("Field = %q, want business_impact", mfe.Field)
	}
}

func TestDecode_EmptyInputs(t *testing.T) {
	tests := []struct {
		format  Format
		content string
	}{
		{FormatCSV, ""},
		{FormatJSON, "[]"},
		{FormatYAML, ""},
		{FormatTOML, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			table, err := Decode(strings.NewReader(tt.content), tt.format)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(table.Rows) != 0 {
				t.Errorf("expected no rows, got %d", len(table.Rows))
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		content string
	}{
		{"json syntax", FormatJSON, "[{"},
		{"json scalar", FormatJSON, "42"},
		{"json object without tasks", FormatJSON, `{"items": []}`},
		{"json non-object task", FormatJSON, `["a"]`},
		{"yaml scalar", FormatYAML, "hello"},
		{"toml syntax", FormatTOML, "[[tasks]\nname ="},
		{"csv ragged", FormatCSV, "name,days_left\n\"unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.content), tt.format); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
