package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/internal/export"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/tracking"
	"dogwalk-tracker/internal/units"
	"dogwalk-tracker/pkg/utils"
)

// VisibilityRequest reports the page's visibility state
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// GeolocationErrorRequest carries a browser GeolocationPositionError
type GeolocationErrorRequest struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UnitRequest changes the display unit
type UnitRequest struct {
	Unit string `json:"unit"`
}

// FixPublisher accepts fixes from the page
type FixPublisher interface {
	Publish(fix models.Fix) int
	ReportError(err error)
}

// GetTrack handles GET /api/track
func GetTrack(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, ctrl.Track())
	}
}

// StartTracking handles POST /api/track/start
func StartTracking(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.StartTracking(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, snap)
	}
}

// PauseTracking handles POST /api/track/pause
func PauseTracking(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.PauseTracking(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, snap)
	}
}

// ResumeTracking handles POST /api/track/resume
func ResumeTracking(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.ResumeTracking(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, snap)
	}
}

// StopTracking handles POST /api/track/stop
func StopTracking(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.StopTracking(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, snap)
	}
}

// ClearTracking handles DELETE /api/track
func ClearTracking(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, ctrl.ClearTracking(r.Context()))
	}
}

// FixResponse tells the page whether a fix made it into the walk
type FixResponse struct {
	Accepted bool                 `json:"accepted"`
	Reason   string               `json:"reason,omitempty"`
	Track    models.TrackSnapshot `json:"track"`
}

// ReceiveFix handles POST /api/track/fix. The fix is taken only while a
// walk is actively receiving; a fix the filter drops is reported with its reason.
func ReceiveFix(ctrl *controller.Controller, feed FixPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fix models.Fix
		if err := utils.DecodeJSON(r, &fix); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		verdict := ctrl.CheckFix(fix)
		if feed.Publish(fix) == 0 {
			respondErr(w, tracking.ErrNotReceiving)
			return
		}

		resp := FixResponse{Accepted: verdict == nil, Track: ctrl.Track()}
		if verdict != nil {
			resp.Reason = verdict.Error()
		}
		utils.RespondSuccess(w, resp)
	}
}

// ReportGeolocationError handles POST /api/track/geolocation-error
func ReportGeolocationError(ctrl *controller.Controller, feed FixPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GeolocationErrorRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		feed.ReportError(tracking.GeolocationError(req.Code, req.Message))
		utils.RespondSuccess(w, ctrl.Track())
	}
}

// SetVisibility handles POST /api/track/visibility
func SetVisibility(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VisibilityRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		utils.RespondSuccess(w, ctrl.SetVisibility(r.Context(), req.Visible))
	}
}

// TrackGPX handles GET /api/track.gpx
func TrackGPX(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := ctrl.Track()
		data, err := export.GPX(snap.Points, export.WalkMeta{StartedAt: snap.StartedAt})
		if errors.Is(err, export.ErrEmptyWalk) {
			respondErr(w, tracking.ErrNothingToSave)
			return
		}
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondFile(w, "application/gpx+xml", "walk.gpx", data)
	}
}

// GetStats handles GET /api/stats?unit=
func GetStats(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var unit units.Unit
		if raw := r.URL.Query().Get("unit"); raw != "" {
			parsed, err := units.ParseUnit(raw)
			if err != nil {
				respondErr(w, err)
				return
			}
			unit = parsed
		}

		stats, err := ctrl.Stats(unit)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, stats)
	}
}

// SetUnit handles POST /api/settings/unit
func SetUnit(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnitRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		unit, err := units.ParseUnit(req.Unit)
		if err != nil {
			respondErr(w, err)
			return
		}
		if err := ctrl.SetUnit(unit); err != nil {
			respondErr(w, err)
			return
		}

		stats, err := ctrl.Stats(unit)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, stats)
	}
}
