package icalsync

import (
	"context"
	"fmt"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/reservation"
)

type Service interface {
	CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error)
	ListSubscriptions(ctx context.Context, propertyID int64) ([]Subscription, error)
	RemoveSubscription(ctx context.Context, propertyID int64, id int64) error
	// Sync runs one import cycle for the subscription and returns the
	// record with its updated sync status. Fetch, parse, and conflict
	// failures are recorded on the record, not returned as errors; only
	// ErrNotFound, ErrInactive, ErrSyncInProgress, and storage failures
	// reach the caller.
	Sync(ctx context.Context, subscriptionID int64) (Subscription, error)
}

type ServiceImpl struct {
	subs         Repository
	reservations reservation.Repository
	fetcher      Fetcher
	leases       *leaseRegistry
	clock        utils.Clock
}

func NewService(subs Repository, reservations reservation.Repository, fetcher Fetcher, leaseTimeout time.Duration, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		subs:         subs,
		reservations: reservations,
		fetcher:      fetcher,
		leases:       newLeaseRegistry(leaseTimeout, clock),
		clock:        clock,
	}
}

func (s *ServiceImpl) CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error) {
	if _, err := url.ParseRequestURI(sub.FeedURL); err != nil {
		return Subscription{}, fmt.Errorf("invalid feed URL: %w", err)
	}
	if !sub.SourceName.Valid() {
		return Subscription{}, fmt.Errorf("unknown source name %q", sub.SourceName)
	}
	return s.subs.Store(ctx, sub)
}

func (s *ServiceImpl) ListSubscriptions(ctx context.Context, propertyID int64) ([]Subscription, error) {
	return s.subs.ListByProperty(ctx, propertyID)
}

func (s *ServiceImpl) RemoveSubscription(ctx context.Context, propertyID int64, id int64) error {
	return s.subs.Deactivate(ctx, propertyID, id)
}

func (s *ServiceImpl) Sync(ctx context.Context, subscriptionID int64) (Subscription, error) {
	sub, err := s.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return Subscription{}, err
	}
	if !sub.IsActive {
		return Subscription{}, ErrInactive
	}

	if !s.leases.acquire(sub.ID) {
		return Subscription{}, ErrSyncInProgress
	}
	defer s.leases.release(sub.ID)

	if syncErr := s.runSync(ctx, sub); syncErr != nil {
		// The failure lives on the subscription record; previously imported
		// intervals stay, last_synced_at keeps its old value, and retry is
		// the external scheduler's business.
		log.Warnf("sync failed for subscription %d: %v", sub.ID, syncErr)
		if err := s.subs.RecordSyncError(ctx, sub.ID, syncErr.Error()); err != nil {
			return Subscription{}, err
		}
	} else {
		if err := s.subs.RecordSyncSuccess(ctx, sub.ID, s.clock.Now()); err != nil {
			return Subscription{}, err
		}
	}

	return s.subs.GetByID(ctx, subscriptionID)
}

func (s *ServiceImpl) runSync(ctx context.Context, sub Subscription) error {
	body, err := s.fetcher.Fetch(ctx, sub.FeedURL)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	events, err := ParseFeed(body)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	return s.reconcile(ctx, sub, events)
}

// reconcile matches upstream events to previously imported intervals by
// external UID. Re-running against an unchanged feed performs zero writes.
func (s *ServiceImpl) reconcile(ctx context.Context, sub Subscription, events []BookingEvent) error {
	imported, err := s.reservations.ListBySubscription(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to load imported reservations: %w", err)
	}
	byUID := make(map[string]reservation.Reservation, len(imported))
	for _, res := range imported {
		if res.ExternalUID != nil {
			byUID[*res.ExternalUID] = res
		}
	}

	seen := make(map[string]bool, len(events))
	for _, event := range events {
		if seen[event.UID] {
			continue
		}
		seen[event.UID] = true

		existing, known := byUID[event.UID]
		if !known {
			if err := s.insertImported(ctx, sub, event); err != nil {
				return err
			}
			continue
		}
		if err := s.updateImported(ctx, existing, event); err != nil {
			return err
		}
	}

	// UIDs this subscription imported before but the feed no longer carries
	// are retracted upstream: soft-cancel to preserve history, never delete.
	for uid, res := range byUID {
		if !seen[uid] && res.Status.Blocks() {
			if err := s.reservations.UpdateStatus(ctx, res.ID, reservation.StatusCancelled); err != nil {
				return fmt.Errorf("failed to retract reservation %s: %w", uid, err)
			}
		}
	}
	return nil
}

func (s *ServiceImpl) insertImported(ctx context.Context, sub Subscription, event BookingEvent) error {
	status := reservation.StatusConfirmed
	if event.Cancelled {
		status = reservation.StatusCancelled
	}
	uid := event.UID
	_, err := s.reservations.Store(ctx, reservation.Reservation{
		PropertyID:     sub.PropertyID,
		GuestName:      event.Summary,
		CheckIn:        event.Start,
		CheckOut:       event.End,
		Status:         status,
		Source:         sub.SourceName.ReservationSource(),
		SubscriptionID: &sub.ID,
		ExternalUID:    &uid,
	})
	if err != nil {
		// A conflict here means the external booking collides with a
		// manually created local one; it surfaces on the subscription
		// record, never as a silent overwrite or drop.
		return fmt.Errorf("failed to import event %s: %w", event.UID, err)
	}
	return nil
}

func (s *ServiceImpl) updateImported(ctx context.Context, existing reservation.Reservation, event BookingEvent) error {
	status := existing.Status
	if event.Cancelled {
		status = reservation.StatusCancelled
	} else if !existing.Status.Blocks() {
		// The UID came back after a retraction or upstream cancellation.
		status = reservation.StatusConfirmed
	}

	unchanged := existing.CheckIn.Equal(event.Start) &&
		existing.CheckOut.Equal(event.End) &&
		existing.Status == status
	if unchanged {
		return nil
	}

	existing.CheckIn = event.Start
	existing.CheckOut = event.End
	existing.Status = status
	if _, err := s.reservations.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update imported event %s: %w", event.UID, err)
	}
	return nil
}
