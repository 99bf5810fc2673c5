package lockeddate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, lock LockedDate) (LockedDate, error)
	Delete(ctx context.Context, propertyID int64, id int64) error
	// ListByProperty returns locks with Day in [from, to).
	ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]LockedDate, error)
	// ListAllByProperty returns every lock of the property.
	ListAllByProperty(ctx context.Context, propertyID int64) ([]LockedDate, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, lock LockedDate) (LockedDate, error) {
	query := `INSERT INTO locked_date (property_id, day, reason, created_by)
              VALUES ($1, $2, $3, $4)
              RETURNING id`

	err := r.db.QueryRowContext(ctx, query, lock.PropertyID, lock.Day, lock.Reason, lock.CreatedBy).Scan(&lock.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return LockedDate{}, ErrAlreadyLocked
		}
		err := fmt.Errorf("could not store locked date: %w", err)
		log.Error(err)
		return LockedDate{}, err
	}
	return lock, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, propertyID int64, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locked_date WHERE id = $1 AND property_id = $2`, id, propertyID)
	if err != nil {
		err := fmt.Errorf("could not delete locked date: %w", err)
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

func (r *RepositoryImpl) ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]LockedDate, error) {
	query := `SELECT id, property_id, day, COALESCE(reason, ''), created_by
              FROM locked_date
              WHERE property_id = $1 AND day >= $2 AND day < $3
              ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query, propertyID, from, to)
	if err != nil {
		err := fmt.Errorf("could not query locked dates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectLocks(rows)
}

func (r *RepositoryImpl) ListAllByProperty(ctx context.Context, propertyID int64) ([]LockedDate, error) {
	query := `SELECT id, property_id, day, COALESCE(reason, ''), created_by
              FROM locked_date
              WHERE property_id = $1
              ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		err := fmt.Errorf("could not query locked dates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectLocks(rows)
}

func collectLocks(rows *sql.Rows) ([]LockedDate, error) {
	locks := make([]LockedDate, 0, 10)
	for rows.Next() {
		var lock LockedDate
		if err := rows.Scan(&lock.ID, &lock.PropertyID, &lock.Day, &lock.Reason, &lock.CreatedBy); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		lock.Day = utils.DateOnly(lock.Day)
		locks = append(locks, lock)
	}
	return locks, rows.Err()
}
