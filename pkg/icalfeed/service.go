package icalfeed

import (
	"context"
	"errors"
	"fmt"

	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
)

type Service interface {
	// EnsureToken returns the property's active token, minting one only if
	// none exists. Enabling twice is idempotent.
	EnsureToken(ctx context.Context, propertyID int64) (FeedToken, error)
	CurrentToken(ctx context.Context, propertyID int64) (FeedToken, error)
	// Revoke permanently invalidates the active token. A later EnsureToken
	// mints a fresh value; the old URL stays dead.
	Revoke(ctx context.Context, propertyID int64) error
	// Feed resolves a presented token live (never cached, so revocation is
	// immediate) and renders the property's availability as iCal.
	Feed(ctx context.Context, token string) (string, error)
}

type ServiceImpl struct {
	tokens       Repository
	reservations reservation.Repository
	locks        lockeddate.Repository
}

func NewService(tokens Repository, reservations reservation.Repository, locks lockeddate.Repository) *ServiceImpl {
	return &ServiceImpl{
		tokens:       tokens,
		reservations: reservations,
		locks:        locks,
	}
}

func (s *ServiceImpl) EnsureToken(ctx context.Context, propertyID int64) (FeedToken, error) {
	existing, err := s.tokens.GetActiveByProperty(ctx, propertyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrTokenNotFound) {
		return FeedToken{}, err
	}

	value, err := generateToken()
	if err != nil {
		return FeedToken{}, err
	}
	return s.tokens.Store(ctx, FeedToken{PropertyID: propertyID, Token: value})
}

func (s *ServiceImpl) CurrentToken(ctx context.Context, propertyID int64) (FeedToken, error) {
	return s.tokens.GetActiveByProperty(ctx, propertyID)
}

func (s *ServiceImpl) Revoke(ctx context.Context, propertyID int64) error {
	return s.tokens.Revoke(ctx, propertyID)
}

func (s *ServiceImpl) Feed(ctx context.Context, token string) (string, error) {
	feedToken, err := s.tokens.GetActiveByToken(ctx, token)
	if err != nil {
		return "", err
	}

	// The full range, not a window around now: an upstream calendar that
	// trusts this feed must see every blocking stay, however far out.
	reservations, err := s.reservations.ListAllByProperty(ctx, feedToken.PropertyID)
	if err != nil {
		return "", fmt.Errorf("failed to load reservations: %w", err)
	}
	locks, err := s.locks.ListAllByProperty(ctx, feedToken.PropertyID)
	if err != nil {
		return "", fmt.Errorf("failed to load locked dates: %w", err)
	}

	return renderFeed(reservations, locks), nil
}
