package reservation

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Blocks reports whether a reservation in this status occupies its nights.
// Cancelled and no-show reservations keep their rows for history but do not
// participate in overlap checks or availability.
func (s Status) Blocks() bool {
	return s != StatusCancelled && s != StatusNoShow
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Source string

const (
	SourceDirect     Source = "direct"
	SourceAirbnb     Source = "airbnb"
	SourceVrbo       Source = "vrbo"
	SourceBookingCom Source = "booking_com"
	SourceOther      Source = "other"
)

// Reservation is a half-open [CheckIn, CheckOut) stay. CheckOut itself is a
// free night.
type Reservation struct {
	ID         int64
	UID        uuid.UUID
	PropertyID int64
	GuestName  string
	CheckIn    time.Time
	CheckOut   time.Time
	Status     Status
	Source     Source
	// SubscriptionID and ExternalUID are set only on intervals imported
	// from an external iCal feed and identify the upstream event.
	SubscriptionID *int64
	ExternalUID    *string
}

// Overlaps reports half-open range intersection with [checkIn, checkOut).
func (r Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}
