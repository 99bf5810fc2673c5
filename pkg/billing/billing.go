package billing

import "errors"

type Feature string

const (
	FeatureCalendar Feature = "calendar"
	FeatureReport   Feature = "report"
)

// PlanLimits are the plan-default month windows. A nil limit means the plan
// grants unlimited reach for that feature.
type PlanLimits struct {
	CalendarMonths *int
	ReportMonths   *int
}

type OverrideKind int

const (
	// OverrideUseDefault falls through to the plan limit.
	OverrideUseDefault OverrideKind = iota
	OverrideUnlimited
	OverrideMonths
)

// Override is the per-user adjustment of a single feature window. The tagged
// form keeps "unlimited" distinct from any month count, so no sentinel value
// is needed.
type Override struct {
	Kind   OverrideKind
	Months int
}

// Entitlement is everything the gate needs to decide access for one user.
type Entitlement struct {
	// PaidActive grants every window unconditionally.
	PaidActive       bool
	Plan             PlanLimits
	CalendarOverride Override
	ReportOverride   Override
}

var ErrNoSubscription = errors.New("user has no subscription")

// EffectiveLimit resolves the month window for a feature: a non-default
// override always wins over the plan limit. nil means unlimited.
func (e Entitlement) EffectiveLimit(feature Feature) *int {
	override := e.CalendarOverride
	planLimit := e.Plan.CalendarMonths
	if feature == FeatureReport {
		override = e.ReportOverride
		planLimit = e.Plan.ReportMonths
	}
	switch override.Kind {
	case OverrideUnlimited:
		return nil
	case OverrideMonths:
		months := override.Months
		return &months
	default:
		return planLimit
	}
}
