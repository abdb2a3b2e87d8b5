package tune

import "errors"

var (
	// ErrInvalidConfig wraps rejected configuration values.
	ErrInvalidConfig = errors.New("invalid tuner configuration")
	// ErrAttached is returned when a set-once field is changed while attached.
	ErrAttached = errors.New("tuner is attached")
)
