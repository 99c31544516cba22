package handlers

import (
	"fmt"
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/pkg/utils"
)

// LocateRequest sets the walk's start point. An empty query uses the device position.
type LocateRequest struct {
	Query string `json:"query"`
}

// Locate handles POST /api/locate
func Locate(ctrl *controller.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LocateRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		p, err := ctrl.Locate(r.Context(), req.Query)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondSuccess(w, p)
	}
}
