package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/billing"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
)

type Service interface {
	// OwnerCalendar resolves the five-way month view for one or more of the
	// owner's properties. The month must pass the calendar entitlement gate.
	OwnerCalendar(ctx context.Context, propertyIDs []int64, month time.Time) (map[int64]map[string]DayStatus, error)
	// PublicCalendar resolves the two-way customer view for exactly one
	// property. Never mixes in another property's data and is not gated.
	PublicCalendar(ctx context.Context, propertyID int64, month time.Time) (map[string]PublicDayStatus, error)
}

type ServiceImpl struct {
	reservations reservation.Repository
	locks        lockeddate.Repository
	gate         billing.Gate
	clock        utils.Clock
}

func NewService(reservations reservation.Repository, locks lockeddate.Repository, gate billing.Gate, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		reservations: reservations,
		locks:        locks,
		gate:         gate,
		clock:        clock,
	}
}

func (s *ServiceImpl) OwnerCalendar(ctx context.Context, propertyIDs []int64, month time.Time) (map[int64]map[string]DayStatus, error) {
	if err := s.gate.CheckMonth(ctx, billing.FeatureCalendar, month); err != nil {
		return nil, err
	}

	result := make(map[int64]map[string]DayStatus, len(propertyIDs))
	for _, propertyID := range propertyIDs {
		ix, err := s.buildIndex(ctx, propertyID, month)
		if err != nil {
			return nil, err
		}
		result[propertyID] = ix.Month(month)
	}
	return result, nil
}

func (s *ServiceImpl) PublicCalendar(ctx context.Context, propertyID int64, month time.Time) (map[string]PublicDayStatus, error) {
	ix, err := s.buildIndex(ctx, propertyID, month)
	if err != nil {
		return nil, err
	}
	return ix.PublicMonth(month), nil
}

func (s *ServiceImpl) buildIndex(ctx context.Context, propertyID int64, month time.Time) (*Index, error) {
	from := utils.MonthStart(month)
	to := utils.NextMonth(month)

	reservations, err := s.reservations.ListByProperty(ctx, propertyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	locks, err := s.locks.ListByProperty(ctx, propertyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load locked dates: %w", err)
	}
	return BuildIndex(reservations, locks, utils.Today(s.clock)), nil
}
