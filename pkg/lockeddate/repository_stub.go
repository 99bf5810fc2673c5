package lockeddate

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int64]LockedDate
	nextId int64
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int64]LockedDate),
		nextId: 1,
	}
}

func (r *RepositoryStub) Store(ctx context.Context, lock LockedDate) (LockedDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.PropertyID == lock.PropertyID && existing.Day.Equal(lock.Day) {
			return LockedDate{}, ErrAlreadyLocked
		}
	}
	lock.ID = r.nextId
	r.nextId++
	r.items[lock.ID] = lock
	return lock, nil
}

func (r *RepositoryStub) Delete(ctx context.Context, propertyID int64, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, exists := r.items[id]
	if !exists || lock.PropertyID != propertyID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RepositoryStub) ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]LockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []LockedDate
	for _, lock := range r.items {
		if lock.PropertyID == propertyID && !lock.Day.Before(from) && lock.Day.Before(to) {
			result = append(result, lock)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})
	return result, nil
}

func (r *RepositoryStub) ListAllByProperty(ctx context.Context, propertyID int64) ([]LockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []LockedDate
	for _, lock := range r.items {
		if lock.PropertyID == propertyID {
			result = append(result, lock)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})
	return result, nil
}
