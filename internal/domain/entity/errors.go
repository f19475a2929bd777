package entity

import "errors"

// ErrInvalidTransition is returned when a status change is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid status transition")
