package booking

import (
	"fmt"
	"strings"
)

// SlotUnavailableError indicates the lock phase could not cover every
// requested slot. Retryable after re-resolving candidates.
type SlotUnavailableError struct {
	SlotIDs []string
}

func (e SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot(s) not available for locking: %s", strings.Join(e.SlotIDs, ", "))
}

// ConcurrencyConflictError indicates the commit-phase update count did not
// match the expected slot count: another actor booked a slot between lock and
// commit. The transaction is fully rolled back. Not retryable for the same
// slot set; the caller should re-resolve candidates.
type ConcurrencyConflictError struct {
	SlotIDs []string
}

func (e ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent booking detected on slot(s): %s", strings.Join(e.SlotIDs, ", "))
}

// InfeasibleDurationError indicates no unbroken run of free slots satisfies
// the requested duration. Not retryable without changing parameters.
type InfeasibleDurationError struct {
	TrainerID       string
	DurationMinutes int
}

func (e InfeasibleDurationError) Error() string {
	return fmt.Sprintf("no consecutive free slots for %d minutes with trainer %s", e.DurationMinutes, e.TrainerID)
}

// InvalidStateTransitionError indicates an operation was attempted on a
// request or booking already in a terminal or incompatible status.
type InvalidStateTransitionError struct {
	Entity string // "request" or "booking"
	ID     string
	Status string
}

func (e InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s is %s and cannot be modified", e.Entity, e.ID, e.Status)
}
