package availability

import (
	"time"

	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
)

type DayStatus string

const (
	StatusAvailable DayStatus = "available"
	StatusBooked    DayStatus = "booked"
	StatusCompleted DayStatus = "completed"
	StatusLocked    DayStatus = "locked"
	StatusPast      DayStatus = "past"
)

type PublicDayStatus string

const (
	PublicAvailable    PublicDayStatus = "available"
	PublicNotAvailable PublicDayStatus = "notAvailable"
)

// Index precomputes the status of every occupied or locked day for one
// property's data set. Build once per data change; lookups are O(1), so a
// month render never rescans the interval list per day.
type Index struct {
	today time.Time
	days  map[int64]DayStatus
}

// BuildIndex resolves reservations and locks into a day index. Locks are
// inserted first and always win, including over past dates: they represent
// a deliberate owner action. Reservations then claim their [CheckIn,
// CheckOut) days first-write-wins; the conflict guard keeps true overlaps
// out of storage, so the tie-break only matters for stale reads.
func BuildIndex(reservations []reservation.Reservation, locks []lockeddate.LockedDate, today time.Time) *Index {
	today = utils.DateOnly(today)
	ix := &Index{
		today: today,
		days:  make(map[int64]DayStatus),
	}

	for _, lock := range locks {
		ix.days[dayKey(lock.Day)] = StatusLocked
	}

	for _, res := range reservations {
		if !res.Status.Blocks() {
			continue
		}
		status := StatusBooked
		if !res.CheckOut.After(today) {
			status = StatusCompleted
		}
		for day := res.CheckIn; day.Before(res.CheckOut); day = day.AddDate(0, 0, 1) {
			key := dayKey(day)
			if _, taken := ix.days[key]; !taken {
				ix.days[key] = status
			}
		}
	}
	return ix
}

// StatusOn resolves a single day. Days with no index entry are past or
// available depending on today.
func (ix *Index) StatusOn(day time.Time) DayStatus {
	if status, ok := ix.days[dayKey(utils.DateOnly(day))]; ok {
		return status
	}
	if utils.DateOnly(day).Before(ix.today) {
		return StatusPast
	}
	return StatusAvailable
}

// PublicStatusOn collapses the owner view for customer-facing rendering:
// everything that is not plainly available is notAvailable.
func (ix *Index) PublicStatusOn(day time.Time) PublicDayStatus {
	if ix.StatusOn(day) == StatusAvailable {
		return PublicAvailable
	}
	return PublicNotAvailable
}

// Month resolves every day of the month starting at monthStart, keyed by
// YYYY-MM-DD.
func (ix *Index) Month(monthStart time.Time) map[string]DayStatus {
	result := make(map[string]DayStatus)
	end := utils.NextMonth(monthStart)
	for day := utils.MonthStart(monthStart); day.Before(end); day = day.AddDate(0, 0, 1) {
		result[day.Format(utils.DateLayout)] = ix.StatusOn(day)
	}
	return result
}

// PublicMonth is Month collapsed to the two-way customer view.
func (ix *Index) PublicMonth(monthStart time.Time) map[string]PublicDayStatus {
	result := make(map[string]PublicDayStatus)
	end := utils.NextMonth(monthStart)
	for day := utils.MonthStart(monthStart); day.Before(end); day = day.AddDate(0, 0, 1) {
		result[day.Format(utils.DateLayout)] = ix.PublicStatusOn(day)
	}
	return result
}

func dayKey(day time.Time) int64 {
	return day.Unix()
}
