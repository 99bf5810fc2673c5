package report

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	entries map[int64][]Entry // userID -> entries
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{entries: make(map[int64][]Entry)}
}

func (r *RepositoryStub) AddEntry(userID int64, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = int64(len(r.entries[userID]) + 1)
	r.entries[userID] = append(r.entries[userID], entry)
}

func (r *RepositoryStub) ListForRange(ctx context.Context, userID int64, from, to time.Time) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Entry
	for _, entry := range r.entries[userID] {
		if !entry.Date.Before(from) && entry.Date.Before(to) {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID < result[j].ID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}
