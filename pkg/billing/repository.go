package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// GetEntitlement assembles the user's plan limits, paid status, and
	// per-feature overrides. Users without a subscription row, and users
	// whose subscription has lapsed, fall back to the free plan defaults.
	GetEntitlement(ctx context.Context, userID int64) (Entitlement, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetEntitlement(ctx context.Context, userID int64) (Entitlement, error) {
	var ent Entitlement
	var isPaid, isActive bool

	query := `SELECT bp.is_paid, us.is_active, bp.calendar_months_limit, bp.report_months_limit
              FROM user_subscription us
              JOIN billing_plan bp ON bp.id = us.plan_id
              WHERE us.user_id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&isPaid, &isActive, &ent.Plan.CalendarMonths, &ent.Plan.ReportMonths)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ent, err = r.defaultEntitlement(ctx)
		if err != nil {
			return Entitlement{}, err
		}
	case err != nil:
		err := fmt.Errorf("could not query subscription: %w", err)
		log.Error(err)
		return Entitlement{}, err
	case !isActive:
		// A lapsed subscription grants nothing beyond the free plan; its
		// NULL pro limits must not survive as "unlimited".
		ent, err = r.defaultEntitlement(ctx)
		if err != nil {
			return Entitlement{}, err
		}
	default:
		ent.PaidActive = isPaid
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT feature, kind, months FROM entitlement_override WHERE user_id = $1`, userID)
	if err != nil {
		err := fmt.Errorf("could not query entitlement overrides: %w", err)
		log.Error(err)
		return Entitlement{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var feature, kind string
		var months sql.NullInt64
		if err := rows.Scan(&feature, &kind, &months); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return Entitlement{}, err
		}
		override := Override{Kind: OverrideUnlimited}
		if kind == "months" {
			override = Override{Kind: OverrideMonths, Months: int(months.Int64)}
		}
		switch Feature(feature) {
		case FeatureCalendar:
			ent.CalendarOverride = override
		case FeatureReport:
			ent.ReportOverride = override
		}
	}
	return ent, rows.Err()
}

func (r *RepositoryImpl) defaultEntitlement(ctx context.Context) (Entitlement, error) {
	var ent Entitlement
	err := r.db.QueryRowContext(ctx,
		`SELECT calendar_months_limit, report_months_limit FROM billing_plan WHERE code = 'free'`).
		Scan(&ent.Plan.CalendarMonths, &ent.Plan.ReportMonths)
	if err != nil {
		err := fmt.Errorf("could not query default plan: %w", err)
		log.Error(err)
		return Entitlement{}, err
	}
	return ent, nil
}
