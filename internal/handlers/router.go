package handlers

import (
	"net/http"

	"dogwalk-tracker/internal/controller"

	"github.com/go-chi/chi/v5"
)

// API bundles what the HTTP bindings need
type API struct {
	Controller  *controller.Controller
	Fixes       FixPublisher
	Diagnostics map[string]StatsSource
	WebSocket   http.HandlerFunc
}

// Mount registers every route on r
func Mount(r chi.Router, api API) {
	ctrl := api.Controller

	r.Get("/health", Health())

	if api.WebSocket != nil {
		r.Get("/ws", api.WebSocket)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/locate", Locate(ctrl))

		// Planning
		r.Get("/plan", GetPlan(ctrl))
		r.Delete("/plan", ClearPlan(ctrl))
		r.Get("/plan.geojson", PlanGeoJSON(ctrl))
		r.Post("/plan/begin", BeginPlanning(ctrl))
		r.Post("/plan/freehand", SetFreehand(ctrl))
		r.Post("/plan/match", MatchFreehand(ctrl))
		r.Post("/plan/auto", AutoPlan(ctrl))
		r.Post("/plan/history/prev", HistoryPrev(ctrl))
		r.Post("/plan/history/next", HistoryNext(ctrl))

		// Tracking
		r.Get("/track", GetTrack(ctrl))
		r.Delete("/track", ClearTracking(ctrl))
		r.Get("/track.gpx", TrackGPX(ctrl))
		r.Post("/track/start", StartTracking(ctrl))
		r.Post("/track/pause", PauseTracking(ctrl))
		r.Post("/track/resume", ResumeTracking(ctrl))
		r.Post("/track/stop", StopTracking(ctrl))
		r.Post("/track/fix", ReceiveFix(ctrl, api.Fixes))
		r.Post("/track/geolocation-error", ReportGeolocationError(ctrl, api.Fixes))
		r.Post("/track/visibility", SetVisibility(ctrl))

		// Saved walk
		r.Post("/walk/save", SaveWalk(ctrl))
		r.Get("/walk/saved", GetSavedWalk(ctrl))
		r.Get("/walk/saved.gpx", SavedWalkGPX(ctrl))

		r.Get("/stats", GetStats(ctrl))
		r.Post("/settings/unit", SetUnit(ctrl))
		r.Get("/diagnostics", Diagnostics(ctrl, api.Diagnostics))
		r.Post("/logs/client", ReceiveClientLog())
	})
}
