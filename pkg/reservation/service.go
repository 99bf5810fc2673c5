package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
)

type Service interface {
	Create(ctx context.Context, res Reservation) (Reservation, error)
	Modify(ctx context.Context, res Reservation) (Reservation, error)
	Transition(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	ListForProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]Reservation, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// Create validates the interval and stores it. The overlap check is not a
// pre-read here: the storage layer rejects colliding ranges atomically with
// the insert, so two concurrent writers cannot both pass.
func (s *ServiceImpl) Create(ctx context.Context, res Reservation) (Reservation, error) {
	if err := validate(&res); err != nil {
		return Reservation{}, err
	}
	if res.Status == "" {
		res.Status = StatusConfirmed
	}
	if res.Source == "" {
		res.Source = SourceDirect
	}
	stored, err := s.repo.Store(ctx, res)
	if err != nil {
		return Reservation{}, err
	}
	return stored, nil
}

func (s *ServiceImpl) Modify(ctx context.Context, res Reservation) (Reservation, error) {
	if err := validate(&res); err != nil {
		return Reservation{}, err
	}
	updated, err := s.repo.Update(ctx, res)
	if err != nil {
		return Reservation{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) Transition(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("unknown status %q", status)}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) ListForProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]Reservation, error) {
	return s.repo.ListByProperty(ctx, propertyID, from, to)
}

func validate(res *Reservation) error {
	res.CheckIn = utils.DateOnly(res.CheckIn)
	res.CheckOut = utils.DateOnly(res.CheckOut)
	if !res.CheckOut.After(res.CheckIn) {
		return &ValidationError{Reason: "check-out date must be after check-in date"}
	}
	if res.Status != "" && !res.Status.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("unknown status %q", res.Status)}
	}
	return nil
}
