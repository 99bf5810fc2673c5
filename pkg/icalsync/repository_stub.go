package icalsync

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int64]Subscription
	nextId int64
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int64]Subscription),
		nextId: 1,
	}
}

func (r *RepositoryStub) Store(ctx context.Context, sub Subscription) (Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub.ID = r.nextId
	sub.IsActive = true
	sub.LastSyncStatus = SyncPending
	sub.LastSyncedAt = nil
	sub.LastErrorMessage = nil
	r.nextId++
	r.items[sub.ID] = sub
	return sub, nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id int64) (Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.items[id]
	if !exists {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (r *RepositoryStub) ListByProperty(ctx context.Context, propertyID int64) ([]Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Subscription
	for _, sub := range r.items {
		if sub.PropertyID == propertyID && sub.IsActive {
			result = append(result, sub)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *RepositoryStub) Deactivate(ctx context.Context, propertyID int64, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.items[id]
	if !exists || sub.PropertyID != propertyID {
		return ErrNotFound
	}
	sub.IsActive = false
	r.items[id] = sub
	return nil
}

func (r *RepositoryStub) RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.items[id]
	if !exists {
		return ErrNotFound
	}
	sub.LastSyncStatus = SyncSynced
	sub.LastSyncedAt = &syncedAt
	sub.LastErrorMessage = nil
	r.items[id] = sub
	return nil
}

func (r *RepositoryStub) RecordSyncError(ctx context.Context, id int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.items[id]
	if !exists {
		return ErrNotFound
	}
	sub.LastSyncStatus = SyncError
	sub.LastErrorMessage = &message
	r.items[id] = sub
	return nil
}
