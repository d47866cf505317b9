package rules

import (
	"context"
	"fmt"
	"sort"
)

// Resolver selects the rule set applicable to one employee.
type Resolver struct {
	repo Repository
}

// NewResolver constructs a Resolver over a rule store.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve merges the three scope tiers into one rule list keyed by
// description. When the same description appears in more than one applicable
// scope, the narrower scope wins: job title over employment type over global.
// An empty result means the employee has no configured compensation; callers
// proceed with zero gross pay.
func (r *Resolver) Resolve(ctx context.Context, jobTitleID, employmentTypeID int64) ([]CompensationRule, error) {
	fetched, err := r.repo.ListForEmployee(ctx, jobTitleID, employmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("resolve rules: %w", err)
	}

	merged := make(map[string]CompensationRule, len(fetched))
	for _, rule := range fetched {
		existing, ok := merged[rule.Description]
		if !ok || scopeRank(rule.Scope()) > scopeRank(existing.Scope()) {
			merged[rule.Description] = rule
		}
	}

	out := make([]CompensationRule, 0, len(merged))
	for _, rule := range merged {
		out = append(out, rule)
	}
	// Stable order keeps calculation output deterministic for identical inputs.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == KindEarning
		}
		return out[i].Description < out[j].Description
	})
	return out, nil
}
