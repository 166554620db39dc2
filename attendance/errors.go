package attendance

import (
	"errors"
	"fmt"
)

// Domain validation outcomes. These are final: the engine never retries them
// and callers should treat them as the definitive state of the day.
var (
	ErrAlreadyClockedIn    = errors.New("already clocked in today")
	ErrAlreadyClockedOut   = errors.New("already clocked out today")
	ErrNoActiveSession     = errors.New("no active session for today")
	ErrBreakStillActive    = errors.New("a break is still active")
	ErrBreakAlreadyActive  = errors.New("a break is already active")
	ErrNoActiveBreak       = errors.New("no active break")
	ErrBreakMismatch       = errors.New("break id does not match the active break")
	ErrInvalidTimeOrdering = errors.New("end time precedes start time")
	ErrNotFound            = errors.New("record not found")
)

var domainErrors = []error{
	ErrAlreadyClockedIn,
	ErrAlreadyClockedOut,
	ErrNoActiveSession,
	ErrBreakStillActive,
	ErrBreakAlreadyActive,
	ErrNoActiveBreak,
	ErrBreakMismatch,
	ErrInvalidTimeOrdering,
	ErrNotFound,
}

// InfraError marks a persistence or clock collaborator failure. It is kept
// apart from the domain taxonomy above; it is the only category a caller may
// reasonably retry with backoff.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

func infra(op string, err error) error {
	return &InfraError{Op: op, Err: err}
}

// IsInfra reports whether err comes from a collaborator rather than from
// domain validation.
func IsInfra(err error) bool {
	var ie *InfraError
	return errors.As(err, &ie)
}

func isDomain(err error) bool {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}

// storeErr passes domain sentinels through untouched (the store translates
// uniqueness violations into them) and wraps everything else as infra.
func storeErr(op string, err error) error {
	if isDomain(err) {
		return err
	}
	return infra(op, err)
}
