package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var gateNow = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestMonthsFromNow(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{"same month", month(2026, time.March), 0},
		{"next month", month(2026, time.April), 1},
		{"previous month", month(2026, time.February), -1},
		{"across year boundary forward", month(2027, time.January), 10},
		{"across year boundary backward", month(2025, time.November), -4},
		{"day within month is irrelevant", time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsFromNow(gateNow, tt.target))
		})
	}
}

func TestAllowed(t *testing.T) {
	two := 2
	freeEnt := Entitlement{Plan: PlanLimits{CalendarMonths: &two, ReportMonths: &two}}

	t.Run("should allow months within the window in both directions", func(t *testing.T) {
		assert.NoError(t, Allowed(freeEnt, FeatureCalendar, gateNow, month(2026, time.March)))
		assert.NoError(t, Allowed(freeEnt, FeatureCalendar, gateNow, month(2026, time.May)))
		assert.NoError(t, Allowed(freeEnt, FeatureCalendar, gateNow, month(2026, time.January)))
	})

	t.Run("should deny months beyond the window in both directions", func(t *testing.T) {
		err := Allowed(freeEnt, FeatureCalendar, gateNow, month(2026, time.June))
		var entErr *EntitlementError
		assert.ErrorAs(t, err, &entErr)
		assert.Equal(t, FeatureCalendar, entErr.Feature)
		assert.Equal(t, 2, entErr.Limit)

		assert.Error(t, Allowed(freeEnt, FeatureCalendar, gateNow, month(2025, time.December)))
	})

	t.Run("should grant everything on an active paid plan", func(t *testing.T) {
		paid := Entitlement{PaidActive: true, Plan: PlanLimits{CalendarMonths: &two}}
		assert.NoError(t, Allowed(paid, FeatureCalendar, gateNow, month(2030, time.December)))
		assert.NoError(t, Allowed(paid, FeatureReport, gateNow, month(2019, time.January)))
	})

	t.Run("should treat nil plan limit as unlimited", func(t *testing.T) {
		unlimited := Entitlement{Plan: PlanLimits{}}
		assert.NoError(t, Allowed(unlimited, FeatureCalendar, gateNow, month(2031, time.July)))
	})

	t.Run("should let a months override win over the plan limit", func(t *testing.T) {
		ent := freeEnt
		ent.ReportOverride = Override{Kind: OverrideMonths, Months: 6}
		assert.NoError(t, Allowed(ent, FeatureReport, gateNow, month(2026, time.September)))
		assert.Error(t, Allowed(ent, FeatureReport, gateNow, month(2026, time.October)))
		// the calendar feature keeps the plan default
		assert.Error(t, Allowed(ent, FeatureCalendar, gateNow, month(2026, time.September)))
	})

	t.Run("should let an unlimited override win over the plan limit", func(t *testing.T) {
		ent := freeEnt
		ent.CalendarOverride = Override{Kind: OverrideUnlimited}
		assert.NoError(t, Allowed(ent, FeatureCalendar, gateNow, month(2035, time.January)))
	})

	t.Run("should never deny the current month on a zero limit", func(t *testing.T) {
		zero := 0
		ent := Entitlement{Plan: PlanLimits{CalendarMonths: &zero}}
		assert.NoError(t, Allowed(ent, FeatureCalendar, gateNow, month(2026, time.March)))
		assert.Error(t, Allowed(ent, FeatureCalendar, gateNow, month(2026, time.April)))
	})
}
