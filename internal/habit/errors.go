package habit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEmail - the email failed validation before any lookup.
	ErrInvalidEmail = errors.New("valid email is required")

	// ErrUserNotFound - no user with that email.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists - a user with that email already signed up.
	ErrUserExists = errors.New("user already exists")

	// ErrNoActiveHabit - the user has no habit in progress.
	ErrNoActiveHabit = errors.New("no active habit")

	// ErrHabitAlreadyActive - one habit at a time; finish it first.
	ErrHabitAlreadyActive = errors.New("a habit is already active")

	// ErrAlreadyCheckedIn is the idempotency signal for a repeated check-in
	// on the same calendar day. It is expected behavior, not a failure:
	// callers should surface it as "already done".
	ErrAlreadyCheckedIn = errors.New("already checked in today")

	// ErrTemplateNotFound - unknown habit template id.
	ErrTemplateNotFound = errors.New("unknown habit template")

	// ErrIdeaNotFound - no wall entry with that id.
	ErrIdeaNotFound = errors.New("idea not found")
)

// StorageError wraps a driver-level failure. No partial state was committed,
// so the caller may safely retry the whole operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsConflict reports whether err is one of the expected state conflicts,
// as opposed to a genuine failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrHabitAlreadyActive) ||
		errors.Is(err, ErrNoActiveHabit)
}
