package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind distinguishes pay components that add to gross pay from those deducted.
type Kind string

const (
	KindEarning   Kind = "EARNING"
	KindDeduction Kind = "DEDUCTION"
)

// ValueKind says how a rule's value is interpreted during calculation.
type ValueKind string

const (
	// ValueAmount is an absolute currency amount.
	ValueAmount ValueKind = "AMOUNT"
	// ValueRate is a fraction of gross pay (0 <= value <= 1).
	ValueRate ValueKind = "RATE"
)

// Scope is the applicability tier of a compensation rule.
type Scope string

const (
	ScopeGlobal         Scope = "GLOBAL"
	ScopeEmploymentType Scope = "EMPLOYMENT_TYPE"
	ScopeJobTitle       Scope = "JOB_TITLE"
)

// CompensationRule is one layered compensation component. Value kind and the
// monetary flag are explicit columns; legacy rows that predate them are
// backfilled from the historical name heuristics when read (see repository).
type CompensationRule struct {
	ID               int64
	JobTitleID       *int64
	EmploymentTypeID *int64
	Description      string
	Kind             Kind
	ValueKind        ValueKind
	Monetary         bool
	Value            decimal.Decimal
}

// Scope derives the applicability tier from the scope columns.
func (r CompensationRule) Scope() Scope {
	switch {
	case r.JobTitleID != nil:
		return ScopeJobTitle
	case r.EmploymentTypeID != nil:
		return ScopeEmploymentType
	default:
		return ScopeGlobal
	}
}

// scopeRank orders scopes for resolution: job title overrides employment type
// overrides global when descriptions collide.
func scopeRank(s Scope) int {
	switch s {
	case ScopeJobTitle:
		return 3
	case ScopeEmploymentType:
		return 2
	default:
		return 1
	}
}

// Legacy name markers from the seeded data. Kept only to classify rows
// created before value_kind and monetary existed.
const legacyNonMonetaryMarker = "Leave Entitlement"

var legacyRateMarkers = []string{"EPF", "EIS"}

// LegacyValueKind infers RATE vs AMOUNT from a deduction's description.
func LegacyValueKind(kind Kind, description string) ValueKind {
	if kind != KindDeduction {
		return ValueAmount
	}
	for _, marker := range legacyRateMarkers {
		if strings.Contains(description, marker) {
			return ValueRate
		}
	}
	return ValueAmount
}

// LegacyMonetary infers whether a rule carries money or is informational.
func LegacyMonetary(description string) bool {
	return !strings.Contains(description, legacyNonMonetaryMarker)
}
