package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/billing"
	"github.com/stayhub/stayhub/pkg/user"
)

// ExportResult carries the rows for accessible months plus the months the
// entitlement gate refused. Partial denial is not an error: the caller
// renders the rows it got and prompts an upgrade for the rest.
type ExportResult struct {
	Entries      []Entry
	Months       []time.Time
	DeniedMonths []time.Time
}

type Service interface {
	Export(ctx context.Context, months []time.Time, filter TypeFilter) (ExportResult, error)
}

type ServiceImpl struct {
	repo Repository
	gate billing.Gate
}

func NewService(repo Repository, gate billing.Gate) *ServiceImpl {
	return &ServiceImpl{repo: repo, gate: gate}
}

// Export validates every selected month against the report entitlement
// before anything is queried; multi-selecting months cannot bypass the
// per-month window.
func (s *ServiceImpl) Export(ctx context.Context, months []time.Time, filter TypeFilter) (ExportResult, error) {
	if !filter.Valid() {
		return ExportResult{}, fmt.Errorf("unknown type filter %q", filter)
	}
	if len(months) == 0 {
		return ExportResult{}, errors.New("no months selected")
	}

	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	var result ExportResult
	var entErr *billing.EntitlementError
	for _, month := range dedupeMonths(months) {
		if err := s.gate.CheckMonth(ctx, billing.FeatureReport, month); err != nil {
			if errors.As(err, &entErr) {
				result.DeniedMonths = append(result.DeniedMonths, month)
				continue
			}
			return ExportResult{}, err
		}
		result.Months = append(result.Months, month)

		entries, err := s.repo.ListForRange(ctx, userId, month, utils.NextMonth(month))
		if err != nil {
			return ExportResult{}, err
		}
		for _, entry := range entries {
			if filter.Matches(entry.Type) {
				result.Entries = append(result.Entries, entry)
			}
		}
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		if result.Entries[i].Date.Equal(result.Entries[j].Date) {
			return result.Entries[i].ID < result.Entries[j].ID
		}
		return result.Entries[i].Date.Before(result.Entries[j].Date)
	})
	return result, nil
}

func dedupeMonths(months []time.Time) []time.Time {
	seen := make(map[string]bool, len(months))
	result := make([]time.Time, 0, len(months))
	for _, month := range months {
		start := utils.MonthStart(month)
		key := start.Format(utils.MonthLayout)
		if !seen[key] {
			seen[key] = true
			result = append(result, start)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}
