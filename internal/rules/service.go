package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrRuleReferenced indicates a rule is frozen by a persisted payslip.
	ErrRuleReferenced = errors.New("rule referenced by a persisted payslip")
	// ErrInvalidRule indicates a rule that fails validation.
	ErrInvalidRule = errors.New("invalid compensation rule")
)

// Service is the administrative surface over the rule store.
type Service struct {
	repo Repository
}

// NewService constructs the rule admin service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByJobTitle returns the rules scoped to one job title.
func (s *Service) ListByJobTitle(ctx context.Context, jobTitleID int64) ([]CompensationRule, error) {
	return s.repo.ListByJobTitle(ctx, jobTitleID)
}

// Create validates and stores a new rule.
func (s *Service) Create(ctx context.Context, rule CompensationRule) (CompensationRule, error) {
	if err := validateRule(rule); err != nil {
		return CompensationRule{}, err
	}
	return s.repo.Create(ctx, rule)
}

// UpdateValue amends a rule's value unless a persisted payslip references it.
func (s *Service) UpdateValue(ctx context.Context, id int64, value decimal.Decimal) error {
	rule, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := s.repo.ReferencedByPayslip(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrRuleReferenced
	}
	rule.Value = value
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.repo.UpdateValue(ctx, id, rule)
}

// Delete removes a rule unless a persisted payslip references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := s.repo.ReferencedByPayslip(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrRuleReferenced
	}
	return s.repo.Delete(ctx, id)
}

func validateRule(rule CompensationRule) error {
	if rule.Description == "" {
		return fmt.Errorf("%w: description required", ErrInvalidRule)
	}
	if rule.Kind != KindEarning && rule.Kind != KindDeduction {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, rule.Kind)
	}
	if rule.ValueKind != ValueAmount && rule.ValueKind != ValueRate {
		return fmt.Errorf("%w: unknown value kind %q", ErrInvalidRule, rule.ValueKind)
	}
	if rule.ValueKind == ValueRate {
		if rule.Kind != KindDeduction {
			return fmt.Errorf("%w: rate values only apply to deductions", ErrInvalidRule)
		}
		if rule.Value.IsNegative() || rule.Value.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: rate must be between 0 and 1", ErrInvalidRule)
		}
		return nil
	}
	if rule.Value.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRule)
	}
	return nil
}
