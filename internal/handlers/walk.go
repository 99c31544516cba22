package handlers

import (
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/internal/export"
	"dogwalk-tracker/pkg/utils"
)

// SaveWalk handles POST /api/walk/save
func SaveWalk(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := ctrl.SaveWalk(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, map[string]interface{}{
			"points": n,
		})
	}
}

// GetSavedWalk handles GET /api/walk/saved
func GetSavedWalk(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := ctrl.LoadWalk(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, map[string]interface{}{
			"points": points,
		})
	}
}

// SavedWalkGPX handles GET /api/walk/saved.gpx
func SavedWalkGPX(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := ctrl.LoadWalk(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}

		data, err := export.GPX(points, export.WalkMeta{Name: "Last walk"})
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondFile(w, "application/gpx+xml", "last-walk.gpx", data)
	}
}
