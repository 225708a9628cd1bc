// Package reservation owns the reservation state machine: request
// validation, creation and the approve/reject/cancel transitions.  Every
// mutation writes to the authoritative remote store first and mirrors
// the result into the local cache afterwards.
package reservation

import (
	"errors"
	"fmt"
)

// ErrValidation is the base error for all rejected inputs.  Callers
// match it with errors.Is to translate any validation failure into an
// HTTP 400 without listing every concrete sentinel.
var ErrValidation = errors.New("validation failed")

// ErrInvalidTimeRange is returned when the start time is not strictly
// before the end time, or when either time is not a valid HH:mm value.
var ErrInvalidTimeRange = fmt.Errorf("%w: start time must be before end time", ErrValidation)

// ErrInvalidDate is returned when the requested date is not a valid
// ISO YYYY-MM-DD value.
var ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)

// ErrMissingDescription is returned when the reservation description is
// empty or whitespace only.
var ErrMissingDescription = fmt.Errorf("%w: description is required", ErrValidation)

// ErrInvalidReason is returned when a rejection is attempted without a
// non-blank reason.
var ErrInvalidReason = fmt.Errorf("%w: rejection reason is required", ErrValidation)

// ErrSpaceInactive is returned when a reservation targets a space that
// exists but has been deactivated.
var ErrSpaceInactive = fmt.Errorf("%w: space is not active", ErrValidation)

// ErrAlreadyFinal is returned when a transition targets a reservation
// that already reached a terminal state it cannot leave.  It is a state
// conflict, not an input problem, so it does not wrap ErrValidation.
var ErrAlreadyFinal = errors.New("reservation already in a terminal state")
