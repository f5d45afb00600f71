package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// DefaultSettings returns the settings written by Init.
func DefaultSettings() models.Settings {
	scenarios, _ := ParseScenarios(constants.DefaultForecastScenarios)
	return models.Settings{
		HoursPerDay:       constants.DefaultHoursPerDay,
		HorizonDays:       constants.DefaultHorizonDays,
		Mode:              models.ParseMode(constants.DefaultMode),
		ForecastScenarios: scenarios,
	}
}

// ParseScenarios parses a comma separated list of capacity deltas such as
// "-2,-1,0,1,2". Blank entries are skipped.
func ParseScenarios(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := cast.ToFloat64E(part)
		if err != nil {
			return nil, fmt.Errorf("invalid forecast scenario %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatScenarios is the inverse of ParseScenarios.
func FormatScenarios(deltas []float64) string {
	parts := make([]string, len(deltas))
	for i, d := range deltas {
		parts[i] = strconv.FormatFloat(d, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// SettingsToRows flattens settings into the key/value rows of the settings table.
func SettingsToRows(s models.Settings) map[string]string {
	return map[string]string{
		constants.SettingHoursPerDay:       strconv.FormatFloat(s.HoursPerDay, 'f', -1, 64),
		constants.SettingHorizonDays:       strconv.Itoa(s.HorizonDays),
		constants.SettingMode:              s.Mode.String(),
		constants.SettingForecastScenarios: FormatScenarios(s.ForecastScenarios),
	}
}

// SettingsFromRows rebuilds settings from key/value rows. Unknown keys are
// ignored; missing keys keep their defaults.
func SettingsFromRows(rows map[string]string) (models.Settings, error) {
	if len(rows) == 0 {
		return models.Settings{}, ErrSettingsNotFound
	}

	settings := DefaultSettings()
	for key, value := range rows {
		var err error
		switch key {
		case constants.SettingHoursPerDay:
			settings.HoursPerDay, err = cast.ToFloat64E(value)
		case constants.SettingHorizonDays:
			settings.HorizonDays, err = cast.ToIntE(value)
		case constants.SettingMode:
			settings.Mode = models.ParseMode(value)
		case constants.SettingForecastScenarios:
			settings.ForecastScenarios, err = ParseScenarios(value)
		}
		if err != nil {
			return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	return settings, nil
}

// sortedKeys returns the keys of rows in a stable order for writes.
func sortedKeys(rows map[string]string) []string {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteSettingsRows calls exec once per key/value pair in key order and
// stops at the first error.
func WriteSettingsRows(s models.Settings, exec func(key, value string) error) error {
	rows := SettingsToRows(s)
	for _, k := range sortedKeys(rows) {
		if err := exec(k, rows[k]); err != nil {
			return fmt.Errorf("saving %s: %w", k, err)
		}
	}
	return nil
}
