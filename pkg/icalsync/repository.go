package icalsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, sub Subscription) (Subscription, error)
	GetByID(ctx context.Context, id int64) (Subscription, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]Subscription, error)
	// Deactivate is the terminal soft removal; the record and its imported
	// history stay.
	Deactivate(ctx context.Context, propertyID int64, id int64) error
	// RecordSyncSuccess sets status=synced and advances last_synced_at.
	RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time) error
	// RecordSyncError sets status=error with a readable message and leaves
	// last_synced_at untouched.
	RecordSyncError(ctx context.Context, id int64, message string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const subscriptionColumns = `id, property_id, feed_url, source_name, is_active, last_synced_at, last_sync_status, last_error_message`

func (r *RepositoryImpl) Store(ctx context.Context, sub Subscription) (Subscription, error) {
	query := `INSERT INTO ical_subscription (property_id, feed_url, source_name, is_active, last_sync_status)
              VALUES ($1, $2, $3, TRUE, 'pending')
              RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sub.PropertyID, sub.FeedURL, string(sub.SourceName)).Scan(&sub.ID)
	if err != nil {
		err := fmt.Errorf("could not store subscription: %w", err)
		log.Error(err)
		return Subscription{}, err
	}
	sub.IsActive = true
	sub.LastSyncStatus = SyncPending
	return sub, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id int64) (Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM ical_subscription WHERE id = $1`
	sub, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query subscription: %w", err)
		log.Error(err)
		return Subscription{}, err
	}
	return sub, nil
}

func (r *RepositoryImpl) ListByProperty(ctx context.Context, propertyID int64) ([]Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
              FROM ical_subscription
              WHERE property_id = $1 AND is_active
              ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		err := fmt.Errorf("could not query subscriptions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	subs := make([]Subscription, 0, 4)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *RepositoryImpl) Deactivate(ctx context.Context, propertyID int64, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ical_subscription SET is_active = FALSE WHERE id = $1 AND property_id = $2`, id, propertyID)
	if err != nil {
		err := fmt.Errorf("could not deactivate subscription: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ical_subscription
         SET last_sync_status = 'synced', last_synced_at = $1, last_error_message = NULL
         WHERE id = $2`, syncedAt, id)
	if err != nil {
		err := fmt.Errorf("could not record sync success: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) RecordSyncError(ctx context.Context, id int64, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ical_subscription
         SET last_sync_status = 'error', last_error_message = $1
         WHERE id = $2`, message, id)
	if err != nil {
		err := fmt.Errorf("could not record sync error: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (Subscription, error) {
	var sub Subscription
	var sourceName, status string
	err := row.Scan(&sub.ID, &sub.PropertyID, &sub.FeedURL, &sourceName,
		&sub.IsActive, &sub.LastSyncedAt, &status, &sub.LastErrorMessage)
	if err != nil {
		return Subscription{}, err
	}
	sub.SourceName = SourceName(sourceName)
	sub.LastSyncStatus = SyncStatus(status)
	return sub, nil
}
