package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, res Reservation) (Reservation, error)
	Update(ctx context.Context, res Reservation) (Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Reservation, error)
	// ListByProperty returns all reservations overlapping [from, to).
	ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]Reservation, error)
	// ListAllByProperty returns every reservation of the property, however
	// far in the past or future.
	ListAllByProperty(ctx context.Context, propertyID int64) ([]Reservation, error)
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]Reservation, error)
}

const overlapConstraint = "reservation_no_overlap"

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const reservationColumns = `id, uid, property_id, guest_name, check_in, check_out, status, source, subscription_id, external_uid`

func (r *RepositoryImpl) Store(ctx context.Context, res Reservation) (Reservation, error) {
	if res.UID == uuid.Nil {
		res.UID = uuid.New()
	}
	query := `INSERT INTO reservation (uid, property_id, guest_name, check_in, check_out, status, source, subscription_id, external_uid)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		res.UID, res.PropertyID, res.GuestName, res.CheckIn, res.CheckOut,
		string(res.Status), string(res.Source), res.SubscriptionID, res.ExternalUID,
	).Scan(&res.ID)
	if err != nil {
		return Reservation{}, r.translateWriteError(ctx, err, res)
	}
	return res, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, res Reservation) (Reservation, error) {
	query := `UPDATE reservation
              SET guest_name = $1, check_in = $2, check_out = $3, status = $4
              WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		res.GuestName, res.CheckIn, res.CheckOut, string(res.Status), res.ID)
	if err != nil {
		return Reservation{}, r.translateWriteError(ctx, err, res)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Reservation{}, fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return Reservation{}, ErrNotFound
	}
	return res, nil
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, id int64, status Status) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reservation SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		// Reviving a cancelled reservation re-enters the exclusion
		// constraint and may collide with a booking made in the meantime.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == overlapConstraint {
			res, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return getErr
			}
			return r.conflictFor(ctx, res)
		}
		err := fmt.Errorf("could not update reservation status: %w", err)
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

func (r *RepositoryImpl) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservation WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete reservation: %w", err)
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

func (r *RepositoryImpl) GetByID(ctx context.Context, id int64) (Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservation WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query reservation: %w", err)
		log.Error(err)
		return Reservation{}, err
	}
	return res, nil
}

func (r *RepositoryImpl) ListByProperty(ctx context.Context, propertyID int64, from, to time.Time) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservation
              WHERE property_id = $1 AND check_in < $2 AND check_out > $3
              ORDER BY check_in, uid`

	rows, err := r.db.QueryContext(ctx, query, propertyID, to, from)
	if err != nil {
		err := fmt.Errorf("could not query reservations: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *RepositoryImpl) ListAllByProperty(ctx context.Context, propertyID int64) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservation
              WHERE property_id = $1
              ORDER BY check_in, uid`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		err := fmt.Errorf("could not query reservations: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *RepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID int64) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservation
              WHERE subscription_id = $1
              ORDER BY check_in, uid`

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		err := fmt.Errorf("could not query imported reservations: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// translateWriteError maps an exclusion-constraint violation to a
// ConflictError carrying the colliding range. Any other failure propagates
// as-is; nothing but SQLSTATE 23P01 on the overlap constraint may be
// reported as a conflict.
func (r *RepositoryImpl) translateWriteError(ctx context.Context, err error, res Reservation) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == overlapConstraint {
		return r.conflictFor(ctx, res)
	}
	err = fmt.Errorf("could not write reservation: %w", err)
	log.Error(err)
	return err
}

// conflictFor re-reads the blocking row so the error can name the exact
// colliding range.
func (r *RepositoryImpl) conflictFor(ctx context.Context, res Reservation) error {
	query := `SELECT check_in, check_out
              FROM reservation
              WHERE property_id = $1
                AND id <> $2
                AND status NOT IN ('cancelled', 'no_show')
                AND check_in < $3 AND check_out > $4
              ORDER BY check_in
              LIMIT 1`

	conflict := &ConflictError{PropertyID: res.PropertyID, Start: res.CheckIn, End: res.CheckOut}
	var start, end time.Time
	err := r.db.QueryRowContext(ctx, query, res.PropertyID, res.ID, res.CheckOut, res.CheckIn).Scan(&start, &end)
	if err == nil {
		conflict.Start = utils.DateOnly(start)
		conflict.End = utils.DateOnly(end)
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Errorf("could not resolve conflicting reservation: %v", err)
	}
	return conflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (Reservation, error) {
	var res Reservation
	var status, source string
	err := row.Scan(&res.ID, &res.UID, &res.PropertyID, &res.GuestName,
		&res.CheckIn, &res.CheckOut, &status, &source, &res.SubscriptionID, &res.ExternalUID)
	if err != nil {
		return Reservation{}, err
	}
	res.CheckIn = utils.DateOnly(res.CheckIn)
	res.CheckOut = utils.DateOnly(res.CheckOut)
	res.Status = Status(status)
	res.Source = Source(source)
	return res, nil
}

func collectReservations(rows *sql.Rows) ([]Reservation, error) {
	reservations := make([]Reservation, 0, 10)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
