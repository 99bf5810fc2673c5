package lockeddate

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/user"
)

type Service interface {
	Lock(ctx context.Context, propertyID int64, day time.Time, reason string) (LockedDate, error)
	Unlock(ctx context.Context, propertyID int64, id int64) error
	ListForProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]LockedDate, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Lock(ctx context.Context, propertyID int64, day time.Time, reason string) (LockedDate, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return LockedDate{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Store(ctx, LockedDate{
		PropertyID: propertyID,
		Day:        utils.DateOnly(day),
		Reason:     reason,
		CreatedBy:  userId,
	})
}

func (s *ServiceImpl) Unlock(ctx context.Context, propertyID int64, id int64) error {
	return s.repo.Delete(ctx, propertyID, id)
}

func (s *ServiceImpl) ListForProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]LockedDate, error) {
	return s.repo.ListByProperty(ctx, propertyID, from, to)
}
