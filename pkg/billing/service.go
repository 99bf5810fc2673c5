package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/user"
)

// Gate answers "may the current user see this month" for a feature. The
// decision itself is the pure Allowed function; this service only fetches
// the entitlement and supplies the clock.
type Gate interface {
	CheckMonth(ctx context.Context, feature Feature, target time.Time) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) CheckMonth(ctx context.Context, feature Feature, target time.Time) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	ent, err := s.repo.GetEntitlement(ctx, userId)
	if err != nil {
		return fmt.Errorf("failed to load entitlement: %w", err)
	}
	return Allowed(ent, feature, s.clock.Now(), target)
}
