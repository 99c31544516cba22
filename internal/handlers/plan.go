package handlers

import (
	"fmt"
	"log"
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/internal/export"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/units"
	"dogwalk-tracker/pkg/utils"
)

// PathRequest carries a drawn path
type PathRequest struct {
	Path models.Path `json:"path"`
}

// AutoPlanRequest asks for a generated loop
type AutoPlanRequest struct {
	Start      *models.GeoPoint `json:"start,omitempty"`
	Target     float64          `json:"target"`
	Unit       string           `json:"unit"`
	Preference string           `json:"preference"`
}

// BeginPlanning handles POST /api/plan/begin
func BeginPlanning(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, ctrl.BeginPlanning())
	}
}

// GetPlan handles GET /api/plan
func GetPlan(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, ctrl.Plan())
	}
}

// ClearPlan handles DELETE /api/plan
func ClearPlan(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl.ClearPlan()
		utils.RespondSuccess(w, ctrl.Plan())
	}
}

// SetFreehand handles POST /api/plan/freehand
func SetFreehand(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PathRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		plan, err := ctrl.SetFreehand(req.Path)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, plan)
	}
}

// MatchFreehand handles POST /api/plan/match
func MatchFreehand(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PathRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		outcome, err := ctrl.MatchFreehand(r.Context(), req.Path)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, outcome)
	}
}

// AutoPlan handles POST /api/plan/auto
func AutoPlan(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AutoPlanRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		unit, err := units.ParseUnit(req.Unit)
		if err != nil {
			respondErr(w, err)
			return
		}
		pref, err := models.ParsePreference(req.Preference)
		if err != nil {
			respondErr(w, err)
			return
		}
		if req.Start != nil && !req.Start.Valid() {
			respondErr(w, fmt.Errorf("%w: start out of range", errBadRequest))
			return
		}

		log.Printf("📥 AUTO-PLAN REQUEST: %.2f %s (%s)", req.Target, unit, pref)

		candidate, err := ctrl.AutoPlan(r.Context(), controller.AutoPlanRequest{
			Start:      req.Start,
			Target:     req.Target,
			Unit:       unit,
			Preference: pref,
		})
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, candidate)
	}
}

// HistoryPrev handles POST /api/plan/history/prev
func HistoryPrev(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidate, err := ctrl.HistoryPrev()
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, candidate)
	}
}

// HistoryNext handles POST /api/plan/history/next
func HistoryNext(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidate, err := ctrl.HistoryNext()
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, candidate)
	}
}

// PlanGeoJSON handles GET /api/plan.geojson
func PlanGeoJSON(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := export.PlanGeoJSON(ctrl.PlannedRoute())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondFile(w, "application/geo+json", "", data)
	}
}
