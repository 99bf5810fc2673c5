package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
)

type Repository interface {
	// ListForRange returns the user's entries with dates in [from, to),
	// ordered ascending by date.
	ListForRange(ctx context.Context, userID int64, from, to time.Time) ([]Entry, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListForRange(ctx context.Context, userID int64, from, to time.Time) ([]Entry, error) {
	query := `SELECT id, property_id, property_name, entry_date, entry_type, category, description,
                     amount, payment_method, reference, notes
              FROM finance_entry
              WHERE user_id = $1 AND entry_date >= $2 AND entry_date < $3
              ORDER BY entry_date, id`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		err := fmt.Errorf("could not query finance entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, 50)
	for rows.Next() {
		var entry Entry
		var entryType string
		err := rows.Scan(&entry.ID, &entry.PropertyID, &entry.PropertyName, &entry.Date, &entryType,
			&entry.Category, &entry.Description, &entry.Amount, &entry.PaymentMethod,
			&entry.Reference, &entry.Notes)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		entry.Date = utils.DateOnly(entry.Date)
		entry.Type = EntryType(entryType)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
