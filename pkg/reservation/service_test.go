package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*ServiceImpl, *RepositoryStub) {
	repo := NewRepositoryStub()
	return NewService(repo), repo
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a reservation with defaults", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Reservation{
			PropertyID: 1,
			GuestName:  "Alice",
			CheckIn:    day(10),
			CheckOut:   day(12),
		})

		assert.NoError(t, err)
		assert.Equal(t, StatusConfirmed, created.Status)
		assert.Equal(t, SourceDirect, created.Source)
		assert.NotZero(t, created.ID)
		assert.NotEmpty(t, created.UID)
	})

	t.Run("should normalize timestamps to civil dates", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Reservation{
			PropertyID: 1,
			CheckIn:    time.Date(2026, 1, 10, 14, 0, 0, 0, time.UTC),
			CheckOut:   time.Date(2026, 1, 12, 11, 0, 0, 0, time.UTC),
		})

		assert.NoError(t, err)
		assert.Equal(t, day(10), created.CheckIn)
		assert.Equal(t, day(12), created.CheckOut)
	})

	t.Run("should reject check-out not after check-in", func(t *testing.T) {
		service, _ := setup(t)

		var valErr *ValidationError

		_, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(10)})
		assert.ErrorAs(t, err, &valErr)

		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(12), CheckOut: day(10)})
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		service, _ := setup(t)

		var valErr *ValidationError
		_, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12), Status: "tentative"})
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("should reject overlap regardless of creation order", func(t *testing.T) {
		// [10,12) vs [11,13): whichever lands second loses
		service, _ := setup(t)
		_, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)

		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(11), CheckOut: day(13)})
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, day(10), conflict.Start)
		assert.Equal(t, day(12), conflict.End)

		service, _ = setup(t)
		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(11), CheckOut: day(13)})
		require.NoError(t, err)

		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, day(11), conflict.Start)
		assert.Equal(t, day(13), conflict.End)
	})

	t.Run("should allow back-to-back stays sharing a boundary date", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)

		// check-out day is a free night: [10,12) then [12,14)
		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(12), CheckOut: day(14)})
		assert.NoError(t, err)
	})

	t.Run("should allow overlap across different properties", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)

		_, err = service.Create(ctx, Reservation{PropertyID: 2, CheckIn: day(10), CheckOut: day(12)})
		assert.NoError(t, err)
	})

	t.Run("should allow overlap with a cancelled reservation", func(t *testing.T) {
		service, _ := setup(t)

		cancelled, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)
		require.NoError(t, service.Transition(ctx, cancelled.ID, StatusCancelled))

		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		assert.NoError(t, err)
	})
}

func TestServiceImpl_Transition(t *testing.T) {
	t.Run("should reject an unknown status", func(t *testing.T) {
		service, _ := setup(t)

		var valErr *ValidationError
		err := service.Transition(ctx, 1, "tentative")
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("should return not found for an unknown reservation", func(t *testing.T) {
		service, _ := setup(t)

		err := service.Transition(ctx, 42, StatusCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should reject reviving a cancelled reservation into an occupied range", func(t *testing.T) {
		service, _ := setup(t)

		original, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)
		require.NoError(t, service.Transition(ctx, original.ID, StatusCancelled))

		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(11), CheckOut: day(13)})
		require.NoError(t, err)

		err = service.Transition(ctx, original.ID, StatusConfirmed)

		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestServiceImpl_Modify(t *testing.T) {
	t.Run("should move a reservation to free dates", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)

		created.CheckIn = day(20)
		created.CheckOut = day(22)
		updated, err := service.Modify(ctx, created)

		assert.NoError(t, err)
		assert.Equal(t, day(20), updated.CheckIn)
		assert.Equal(t, day(22), updated.CheckOut)
	})

	t.Run("should reject moving onto another reservation", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(10), CheckOut: day(12)})
		require.NoError(t, err)
		_, err = service.Create(ctx, Reservation{PropertyID: 1, CheckIn: day(20), CheckOut: day(22)})
		require.NoError(t, err)

		created.CheckIn = day(21)
		created.CheckOut = day(23)
		_, err = service.Modify(ctx, created)

		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}
