package icalsync

import (
	"sync"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
)

// leaseRegistry serializes sync runs per subscription. A lease older than
// the timeout is considered abandoned (hung fetch, crashed run) and may be
// taken over, so one stuck run never wedges future cycles. Runs for
// different subscriptions proceed in parallel.
type leaseRegistry struct {
	mu      sync.Mutex
	leases  map[int64]time.Time
	timeout time.Duration
	clock   utils.Clock
}

func newLeaseRegistry(timeout time.Duration, clock utils.Clock) *leaseRegistry {
	return &leaseRegistry{
		leases:  make(map[int64]time.Time),
		timeout: timeout,
		clock:   clock,
	}
}

// acquire takes the lease for a subscription. Returns false while another
// unexpired run holds it.
func (l *leaseRegistry) acquire(subscriptionID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if startedAt, held := l.leases[subscriptionID]; held && now.Sub(startedAt) < l.timeout {
		return false
	}
	l.leases[subscriptionID] = now
	return true
}

func (l *leaseRegistry) release(subscriptionID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.leases, subscriptionID)
}
