package tracking

import (
	"errors"

	"dogwalk-tracker/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid track state transition")
	ErrNotReceiving      = errors.New("track session is not receiving fixes")
	ErrInvalidFix        = models.ErrInvalidFix
	ErrLowAccuracy       = errors.New("fix accuracy too low")

	ErrNothingToSave = errors.New("nothing to save")
	ErrNothingSaved  = errors.New("nothing saved")

	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")

	ErrWakeLockUnavailable = errors.New("wake lock unavailable")
)
