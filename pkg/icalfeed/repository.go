package icalfeed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, token FeedToken) (FeedToken, error)
	// GetActiveByProperty returns the property's active token, if any.
	GetActiveByProperty(ctx context.Context, propertyID int64) (FeedToken, error)
	// GetActiveByToken resolves a presented token value. Revoked and unknown
	// tokens both return ErrTokenNotFound.
	GetActiveByToken(ctx context.Context, token string) (FeedToken, error)
	// Revoke deactivates the property's active token. Revoked tokens keep
	// their rows; the value is burned forever.
	Revoke(ctx context.Context, propertyID int64) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, token FeedToken) (FeedToken, error) {
	query := `INSERT INTO feed_token (property_id, token, is_active)
              VALUES ($1, $2, TRUE)
              RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, token.PropertyID, token.Token).Scan(&token.ID); err != nil {
		err := fmt.Errorf("could not store feed token: %w", err)
		log.Error(err)
		return FeedToken{}, err
	}
	token.IsActive = true
	return token, nil
}

func (r *RepositoryImpl) GetActiveByProperty(ctx context.Context, propertyID int64) (FeedToken, error) {
	query := `SELECT id, property_id, token, is_active FROM feed_token WHERE property_id = $1 AND is_active`
	return r.getOne(ctx, query, propertyID)
}

func (r *RepositoryImpl) GetActiveByToken(ctx context.Context, token string) (FeedToken, error) {
	query := `SELECT id, property_id, token, is_active FROM feed_token WHERE token = $1 AND is_active`
	return r.getOne(ctx, query, token)
}

func (r *RepositoryImpl) Revoke(ctx context.Context, propertyID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feed_token SET is_active = FALSE WHERE property_id = $1 AND is_active`, propertyID)
	if err != nil {
		err := fmt.Errorf("could not revoke feed token: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *RepositoryImpl) getOne(ctx context.Context, query string, arg any) (FeedToken, error) {
	var token FeedToken
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&token.ID, &token.PropertyID, &token.Token, &token.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return FeedToken{}, ErrTokenNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query feed token: %w", err)
		log.Error(err)
		return FeedToken{}, err
	}
	return token, nil
}
