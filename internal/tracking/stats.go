package tracking

import (
	"fmt"
	"strings"

	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/units"
)

// BuildStats converts both distances into unit and renders the stats line:
//
//	Tracked: 123.4 m / Planned: 1000.0 m (12.3% done) · Scenic
//
// The planned part appears only when plannedMeters > 0.
func BuildStats(trackedMeters, plannedMeters float64, unit units.Unit, pref models.Preference) (models.Stats, error) {
	tracked, err := units.FromMeters(trackedMeters, unit)
	if err != nil {
		return models.Stats{}, err
	}
	symbol := unit.Symbol()

	stats := models.Stats{
		Unit:    string(unit),
		Tracked: tracked,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tracked: %.1f %s", tracked, symbol)

	if plannedMeters > 0 {
		planned, err := units.FromMeters(plannedMeters, unit)
		if err != nil {
			return models.Stats{}, err
		}
		percent := trackedMeters / plannedMeters * 100

		stats.Planned = planned
		stats.PercentComplete = &percent
		fmt.Fprintf(&b, " / Planned: %.1f %s (%.1f%% done)", planned, symbol, percent)

		if label := pref.Label(); label != "" {
			stats.Preference = label
			fmt.Fprintf(&b, " · %s", label)
		}
	}

	stats.Text = b.String()
	return stats, nil
}

// FormatStats returns only the rendered line
func FormatStats(trackedMeters, plannedMeters float64, unit units.Unit, pref models.Preference) (string, error) {
	stats, err := BuildStats(trackedMeters, plannedMeters, unit, pref)
	if err != nil {
		return "", err
	}
	return stats.Text, nil
}
