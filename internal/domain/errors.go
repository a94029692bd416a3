package domain

import "errors"

// Client-input errors. Callers match with errors.Is; the wrapped message carries the
// human-readable reason.
var (
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrOccupancyExceeded       = errors.New("occupancy exceeded")
	ErrNoRoomAvailable         = errors.New("no room available")
	ErrNotFound                = errors.New("not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidCategory         = errors.New("invalid category")
	ErrInvalidArgument         = errors.New("invalid argument")
)

// ErrCodeSpaceExhausted is fatal: confirmation code generation kept colliding.
var ErrCodeSpaceExhausted = errors.New("confirmation code space exhausted")

// IsClientError reports whether err belongs to the client-input taxonomy.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidDateRange,
		ErrOccupancyExceeded,
		ErrNoRoomAvailable,
		ErrNotFound,
		ErrInvalidStatusTransition,
		ErrInvalidCategory,
		ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
