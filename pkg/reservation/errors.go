package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
)

var ErrNotFound = errors.New("reservation not found")

// ValidationError rejects malformed input before anything touches storage.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid reservation: " + e.Reason
}

// ConflictError reports a double-booking attempt. It always carries the
// range of the reservation already holding the nights so callers can show
// it verbatim. Never auto-retried.
type ConflictError struct {
	PropertyID int64
	Start      time.Time
	End        time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict: dates overlap an existing reservation from %s to %s",
		e.Start.Format(utils.DateLayout), e.End.Format(utils.DateLayout))
}
