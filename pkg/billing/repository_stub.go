package billing

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu           sync.RWMutex
	entitlements map[int64]Entitlement
	defaultEnt   Entitlement
}

func NewRepositoryStub() *RepositoryStub {
	free := 2
	return &RepositoryStub{
		entitlements: make(map[int64]Entitlement),
		defaultEnt: Entitlement{
			Plan: PlanLimits{CalendarMonths: &free, ReportMonths: &free},
		},
	}
}

func (r *RepositoryStub) GetEntitlement(ctx context.Context, userID int64) (Entitlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ent, ok := r.entitlements[userID]; ok {
		return ent, nil
	}
	return r.defaultEnt, nil
}

func (r *RepositoryStub) SetEntitlement(userID int64, ent Entitlement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entitlements[userID] = ent
}
