package icalfeed

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int64]FeedToken
	nextId int64
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int64]FeedToken),
		nextId: 1,
	}
}

func (r *RepositoryStub) Store(ctx context.Context, token FeedToken) (FeedToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = r.nextId
	token.IsActive = true
	r.nextId++
	r.items[token.ID] = token
	return token, nil
}

func (r *RepositoryStub) GetActiveByProperty(ctx context.Context, propertyID int64) (FeedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, token := range r.items {
		if token.PropertyID == propertyID && token.IsActive {
			return token, nil
		}
	}
	return FeedToken{}, ErrTokenNotFound
}

func (r *RepositoryStub) GetActiveByToken(ctx context.Context, value string) (FeedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, token := range r.items {
		if token.Token == value && token.IsActive {
			return token, nil
		}
	}
	return FeedToken{}, ErrTokenNotFound
}

func (r *RepositoryStub) Revoke(ctx context.Context, propertyID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	revoked := false
	for id, token := range r.items {
		if token.PropertyID == propertyID && token.IsActive {
			token.IsActive = false
			r.items[id] = token
			revoked = true
		}
	}
	if !revoked {
		return ErrTokenNotFound
	}
	return nil
}
