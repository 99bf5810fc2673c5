package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepositoryStub is an in-memory Repository for tests. It enforces the same
// no-overlap guarantee the Postgres exclusion constraint provides, so
// service tests exercise the conflict path realistically.
type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int64]Reservation
	nextId int64
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int64]Reservation),
		nextId: 1,
	}
}

func (r *RepositoryStub) Store(ctx context.Context, res Reservation) (Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOverlap(res); err != nil {
		return Reservation{}, err
	}
	if res.UID == uuid.Nil {
		res.UID = uuid.New()
	}
	res.ID = r.nextId
	r.nextId++
	r.items[res.ID] = res
	return res, nil
}

func (r *RepositoryStub) Update(ctx context.Context, res Reservation) (Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[res.ID]
	if !exists {
		return Reservation{}, ErrNotFound
	}
	if err := r.checkOverlap(res); err != nil {
		return Reservation{}, err
	}
	res.UID = existing.UID
	res.PropertyID = existing.PropertyID
	res.Source = existing.Source
	res.SubscriptionID = existing.SubscriptionID
	res.ExternalUID = existing.ExternalUID
	r.items[res.ID] = res
	return res, nil
}

func (r *RepositoryStub) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, exists := r.items[id]
	if !exists {
		return ErrNotFound
	}
	res.Status = status
	if err := r.checkOverlap(res); err != nil {
		return err
	}
	r.items[id] = res
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id int64) (Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, exists := r.items[id]
	if !exists {
		return Reservation{}, ErrNotFound
	}
	return res, nil
}

func (r *RepositoryStub) ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Reservation
	for _, res := range r.items {
		if res.PropertyID == propertyID && res.Overlaps(from, to) {
			result = append(result, res)
		}
	}
	sortReservations(result)
	return result, nil
}

func (r *RepositoryStub) ListAllByProperty(ctx context.Context, propertyID int64) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Reservation
	for _, res := range r.items {
		if res.PropertyID == propertyID {
			result = append(result, res)
		}
	}
	sortReservations(result)
	return result, nil
}

func (r *RepositoryStub) ListBySubscription(ctx context.Context, subscriptionID int64) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Reservation
	for _, res := range r.items {
		if res.SubscriptionID != nil && *res.SubscriptionID == subscriptionID {
			result = append(result, res)
		}
	}
	sortReservations(result)
	return result, nil
}

// checkOverlap mirrors the reservation_no_overlap exclusion constraint.
// Callers must hold the write lock.
func (r *RepositoryStub) checkOverlap(candidate Reservation) error {
	if !candidate.Status.Blocks() {
		return nil
	}
	for _, existing := range r.items {
		if existing.ID == candidate.ID || existing.PropertyID != candidate.PropertyID {
			continue
		}
		if existing.Status.Blocks() && existing.Overlaps(candidate.CheckIn, candidate.CheckOut) {
			return &ConflictError{
				PropertyID: existing.PropertyID,
				Start:      existing.CheckIn,
				End:        existing.CheckOut,
			}
		}
	}
	return nil
}

func sortReservations(reservations []Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].CheckIn.Equal(reservations[j].CheckIn) {
			return reservations[i].UID.String() < reservations[j].UID.String()
		}
		return reservations[i].CheckIn.Before(reservations[j].CheckIn)
	})
}

// Reset clears the stub (useful between tests).
func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int64]Reservation)
	r.nextId = 1
}
