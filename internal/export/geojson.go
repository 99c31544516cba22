package export

import (
	"fmt"

	"dogwalk-tracker/internal/models"

	"github.com/paulmach/orb/geojson"
)

// PlanFeatureCollection renders the planned route as a single LineString
// feature. An empty plan yields an empty collection.
func PlanFeatureCollection(plan *models.PlannedRoute) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if plan == nil || len(plan.Path) == 0 {
		return fc
	}

	f := geojson.NewFeature(plan.Path.LineString())
	f.Properties["length_meters"] = plan.LengthMeters
	f.Properties["source"] = string(plan.Source)
	if plan.Preference != "" {
		f.Properties["preference"] = string(plan.Preference)
	}
	if plan.CandidateID != "" {
		f.Properties["candidate_id"] = plan.CandidateID
	}
	fc.Append(f)
	return fc
}

// PlanGeoJSON is PlanFeatureCollection marshaled
func PlanGeoJSON(plan *models.PlannedRoute) ([]byte, error) {
	data, err := PlanFeatureCollection(plan).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to render GeoJSON: %w", err)
	}
	return data, nil
}
