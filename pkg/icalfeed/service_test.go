package icalfeed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func setupFeed(t *testing.T) (*ServiceImpl, *reservation.RepositoryStub, *lockeddate.RepositoryStub) {
	reservations := reservation.NewRepositoryStub()
	locks := lockeddate.NewRepositoryStub()
	return NewService(NewRepositoryStub(), reservations, locks), reservations, locks
}

func TestServiceImpl_EnsureToken(t *testing.T) {
	t.Run("should mint a 64 character hex token", func(t *testing.T) {
		service, _, _ := setupFeed(t)

		token, err := service.EnsureToken(ctx, 1)

		assert.NoError(t, err)
		assert.Len(t, token.Token, 64)
		assert.True(t, token.IsActive)
	})

	t.Run("should be idempotent while a token is active", func(t *testing.T) {
		service, _, _ := setupFeed(t)

		first, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)
		second, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, first.Token, second.Token)
	})

	t.Run("should mint a fresh token after revocation", func(t *testing.T) {
		service, _, _ := setupFeed(t)

		first, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, service.Revoke(ctx, 1))

		second, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)

		// the old URL stays dead
		_, err = service.Feed(ctx, first.Token)
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("should keep tokens per property", func(t *testing.T) {
		service, _, _ := setupFeed(t)

		first, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)
		second, err := service.EnsureToken(ctx, 2)
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
	})
}

func TestServiceImpl_Revoke(t *testing.T) {
	t.Run("should return not found without an active token", func(t *testing.T) {
		service, _, _ := setupFeed(t)
		assert.ErrorIs(t, service.Revoke(ctx, 1), ErrTokenNotFound)
	})
}

func TestServiceImpl_Feed(t *testing.T) {
	t.Run("should reject an unknown token", func(t *testing.T) {
		service, _, _ := setupFeed(t)
		_, err := service.Feed(ctx, "deadbeef")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("should render blocking reservations and locks as all-day events", func(t *testing.T) {
		service, reservations, locks := setupFeed(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1, GuestName: "Alice",
			CheckIn: day(10), CheckOut: day(12),
			Status: reservation.StatusConfirmed, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)
		_, err = reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(20), CheckOut: day(22),
			Status: reservation.StatusCancelled, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)
		lock, err := locks.Store(ctx, lockeddate.LockedDate{PropertyID: 1, Day: day(15), CreatedBy: 1})
		require.NoError(t, err)

		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		document, err := service.Feed(ctx, token.Token)
		require.NoError(t, err)

		cal, err := ics.ParseCalendar(strings.NewReader(document))
		require.NoError(t, err)
		events := cal.Events()
		require.Len(t, events, 2)

		// ordered by start date: the reservation, then the lock
		assert.Contains(t, document, "DTSTART;VALUE=DATE:20260110")
		assert.Contains(t, document, "DTEND;VALUE=DATE:20260112")
		assert.Contains(t, document, "DTSTART;VALUE=DATE:20260115")
		assert.Contains(t, document, "DTEND;VALUE=DATE:20260116")
		assert.NotContains(t, document, "20260120")
		assert.NotContains(t, document, "Alice")

		lockUID := events[1].GetProperty(ics.ComponentPropertyUniqueId)
		require.NotNil(t, lockUID)
		assert.Equal(t, fmt.Sprintf("lock-%d@stayhub", lock.ID), lockUID.Value)
	})

	t.Run("should include stays however far out", func(t *testing.T) {
		service, reservations, locks := setupFeed(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(10).AddDate(4, 0, 0), CheckOut: day(12).AddDate(4, 0, 0),
			Status: reservation.StatusConfirmed, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)
		_, err = reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(10).AddDate(-10, 0, 0), CheckOut: day(12).AddDate(-10, 0, 0),
			Status: reservation.StatusCompleted, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)
		_, err = locks.Store(ctx, lockeddate.LockedDate{PropertyID: 1, Day: day(15).AddDate(5, 0, 0), CreatedBy: 1})
		require.NoError(t, err)

		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		document, err := service.Feed(ctx, token.Token)
		require.NoError(t, err)

		// a far-future stay missing from the feed would let the upstream
		// calendar double-book it
		cal, err := ics.ParseCalendar(strings.NewReader(document))
		require.NoError(t, err)
		assert.Len(t, cal.Events(), 3)
		assert.Contains(t, document, "DTSTART;VALUE=DATE:20300110")
		assert.Contains(t, document, "DTSTART;VALUE=DATE:20160110")
		assert.Contains(t, document, "DTSTART;VALUE=DATE:20310115")
	})

	t.Run("should not leak another property's data", func(t *testing.T) {
		service, reservations, _ := setupFeed(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 2,
			CheckIn:    day(10), CheckOut: day(12),
			Status: reservation.StatusConfirmed, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)

		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		document, err := service.Feed(ctx, token.Token)
		require.NoError(t, err)

		cal, err := ics.ParseCalendar(strings.NewReader(document))
		require.NoError(t, err)
		assert.Empty(t, cal.Events())
	})

	t.Run("should render byte-identical output for unchanged data", func(t *testing.T) {
		service, reservations, _ := setupFeed(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(10), CheckOut: day(12),
			Status: reservation.StatusConfirmed, Source: reservation.SourceDirect,
		})
		require.NoError(t, err)
		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		first, err := service.Feed(ctx, token.Token)
		require.NoError(t, err)
		second, err := service.Feed(ctx, token.Token)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
