package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/billing"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
	"github.com/stayhub/stayhub/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

func setupService(t *testing.T) (*ServiceImpl, *reservation.RepositoryStub, *lockeddate.RepositoryStub) {
	reservations := reservation.NewRepositoryStub()
	locks := lockeddate.NewRepositoryStub()
	clock := &utils.MockClock{FixedNow: time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)}
	gate := billing.NewService(billing.NewRepositoryStub(), clock)
	return NewService(reservations, locks, gate, clock), reservations, locks
}

func TestServiceImpl_OwnerCalendar(t *testing.T) {
	t.Run("should resolve each requested property independently", func(t *testing.T) {
		service, reservations, locks := setupService(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(20),
			CheckOut:   day(22),
			Status:     reservation.StatusConfirmed,
			Source:     reservation.SourceDirect,
		})
		require.NoError(t, err)
		_, err = locks.Store(ctx, lockeddate.LockedDate{PropertyID: 2, Day: day(15), CreatedBy: 1})
		require.NoError(t, err)

		result, err := service.OwnerCalendar(ctx, []int64{1, 2}, day(1))

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, StatusBooked, result[1]["2026-01-20"])
		assert.Equal(t, StatusAvailable, result[1]["2026-01-15"])
		assert.Equal(t, StatusLocked, result[2]["2026-01-15"])
		assert.Equal(t, StatusAvailable, result[2]["2026-01-20"])
	})

	t.Run("should deny a month outside the subscription window", func(t *testing.T) {
		service, _, _ := setupService(t)

		// default stub window is 2 months around now (January 2026)
		_, err := service.OwnerCalendar(ctx, []int64{1}, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

		var entErr *billing.EntitlementError
		assert.ErrorAs(t, err, &entErr)
		assert.Equal(t, billing.FeatureCalendar, entErr.Feature)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, _ := setupService(t)

		_, err := service.OwnerCalendar(context.Background(), []int64{1}, day(1))

		assert.Error(t, err)
	})
}

func TestServiceImpl_PublicCalendar(t *testing.T) {
	t.Run("should collapse the owner view to two values", func(t *testing.T) {
		service, reservations, _ := setupService(t)

		_, err := reservations.Store(ctx, reservation.Reservation{
			PropertyID: 1,
			CheckIn:    day(20),
			CheckOut:   day(22),
			Status:     reservation.StatusConfirmed,
			Source:     reservation.SourceDirect,
		})
		require.NoError(t, err)

		result, err := service.PublicCalendar(ctx, 1, day(1))

		assert.NoError(t, err)
		assert.Equal(t, PublicNotAvailable, result["2026-01-20"])
		assert.Equal(t, PublicNotAvailable, result["2026-01-21"])
		assert.Equal(t, PublicAvailable, result["2026-01-22"])
		// past days are not available to book either
		assert.Equal(t, PublicNotAvailable, result["2026-01-05"])
	})

	t.Run("should not require a user or entitlement", func(t *testing.T) {
		service, _, _ := setupService(t)

		result, err := service.PublicCalendar(context.Background(), 1, day(1))

		assert.NoError(t, err)
		assert.Len(t, result, 31)
	})
}
