package lockeddate

import (
	"errors"
	"time"
)

// LockedDate blocks a single day on a property by deliberate owner action,
// independent of any reservation.
type LockedDate struct {
	ID         int64
	PropertyID int64
	Day        time.Time
	Reason     string
	CreatedBy  int64
}

var (
	ErrNotFound      = errors.New("locked date not found")
	ErrAlreadyLocked = errors.New("date is already locked")
)
