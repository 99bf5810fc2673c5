package billing

import (
	"fmt"
	"time"

	"github.com/stayhub/stayhub/internal/utils"
)

// EntitlementError is a denial, not a validation failure: the request was
// well-formed but the subscription window does not reach the target month.
// Callers use it to drive an upgrade prompt instead of a generic error.
type EntitlementError struct {
	Feature Feature
	Month   time.Time
	Limit   int
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("%s access to %s is outside the subscription window of %d months",
		e.Feature, e.Month.Format(utils.MonthLayout), e.Limit)
}

// MonthsFromNow returns the signed whole-month distance from now's month to
// target's month; days within the month are irrelevant.
func MonthsFromNow(now, target time.Time) int {
	return (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
}

// Allowed decides whether the target month is reachable for the feature.
// Pure: both "now" and the entitlement come from the caller, so month and
// year boundaries are directly unit-testable.
func Allowed(ent Entitlement, feature Feature, now, target time.Time) error {
	if ent.PaidActive {
		return nil
	}
	limit := ent.EffectiveLimit(feature)
	if limit == nil {
		return nil
	}
	distance := MonthsFromNow(now, target)
	if distance < 0 {
		distance = -distance
	}
	if distance <= *limit {
		return nil
	}
	return &EntitlementError{Feature: feature, Month: utils.MonthStart(target), Limit: *limit}
}
