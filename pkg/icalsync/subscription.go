package icalsync

import (
	"errors"
	"time"

	"github.com/stayhub/stayhub/pkg/reservation"
)

type SourceName string

const (
	SourceAirbnb     SourceName = "airbnb"
	SourceVrbo       SourceName = "vrbo"
	SourceBookingCom SourceName = "booking_com"
	SourceOther      SourceName = "other"
)

func (s SourceName) Valid() bool {
	switch s {
	case SourceAirbnb, SourceVrbo, SourceBookingCom, SourceOther:
		return true
	}
	return false
}

// ReservationSource maps the feed's platform to the reservation source tag.
func (s SourceName) ReservationSource() reservation.Source {
	return reservation.Source(s)
}

type SyncStatus string

const (
	// SyncPending: never synced yet.
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// Subscription is one external iCal feed attached to a property. Sync
// bookkeeping fields (LastSyncedAt, LastSyncStatus, LastErrorMessage) are
// owned exclusively by the import pipeline.
type Subscription struct {
	ID               int64
	PropertyID       int64
	FeedURL          string
	SourceName       SourceName
	IsActive         bool
	LastSyncedAt     *time.Time
	LastSyncStatus   SyncStatus
	LastErrorMessage *string
}

var (
	ErrNotFound       = errors.New("ical subscription not found")
	ErrInactive       = errors.New("ical subscription is inactive")
	ErrSyncInProgress = errors.New("a sync for this subscription is already running")
)
