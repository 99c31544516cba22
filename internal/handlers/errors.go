package handlers

import (
	"errors"
	"log"
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services"
	"dogwalk-tracker/internal/tracking"
	"dogwalk-tracker/internal/units"
	"dogwalk-tracker/pkg/utils"
)

var errBadRequest = errors.New("bad request")

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrGeocodeNotFound),
		errors.Is(err, tracking.ErrNothingSaved):
		return http.StatusNotFound

	case errors.Is(err, tracking.ErrNothingToSave),
		errors.Is(err, tracking.ErrInvalidTransition),
		errors.Is(err, tracking.ErrNotReceiving),
		errors.Is(err, controller.ErrStaleResponse),
		errors.Is(err, controller.ErrNoStartLocation),
		errors.Is(err, models.ErrHistoryBoundary),
		errors.Is(err, tracking.ErrGeolocationDenied),
		errors.Is(err, tracking.ErrGeolocationUnavailable):
		return http.StatusConflict

	case errors.Is(err, services.ErrRoutingRequestFailed),
		errors.Is(err, services.ErrRoutingResponseEmpty),
		errors.Is(err, services.ErrGeocodeFailed):
		return http.StatusBadGateway

	case errors.Is(err, errBadRequest),
		errors.Is(err, units.ErrUnknownUnit),
		errors.Is(err, models.ErrUnknownPreference),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrTooFewWaypoints),
		errors.Is(err, controller.ErrInvalidPath),
		errors.Is(err, tracking.ErrInvalidFix):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Internal error: %v", err)
		utils.RespondError(w, status, "Internal server error")
		return
	}
	log.Printf("⚠️  %d: %v", status, err)
	utils.RespondError(w, status, err.Error())
}
