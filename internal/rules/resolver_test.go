package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

type fakeRuleRepo struct {
	rules      []CompensationRule
	referenced map[int64]bool
	listErr    error
}

func (f *fakeRuleRepo) ListForEmployee(_ context.Context, jobTitleID, employmentTypeID int64) ([]CompensationRule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []CompensationRule
	for _, r := range f.rules {
		switch {
		case r.JobTitleID == nil && r.EmploymentTypeID == nil:
			out = append(out, r)
		case r.JobTitleID == nil && r.EmploymentTypeID != nil && *r.EmploymentTypeID == employmentTypeID:
			out = append(out, r)
		case r.JobTitleID != nil && *r.JobTitleID == jobTitleID:
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) ListByJobTitle(_ context.Context, jobTitleID int64) ([]CompensationRule, error) {
	var out []CompensationRule
	for _, r := range f.rules {
		if r.JobTitleID != nil && *r.JobTitleID == jobTitleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) Get(_ context.Context, id int64) (CompensationRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return CompensationRule{}, shared.ErrNotFound
}

func (f *fakeRuleRepo) Create(_ context.Context, r CompensationRule) (CompensationRule, error) {
	r.ID = int64(len(f.rules) + 1)
	f.rules = append(f.rules, r)
	return r, nil
}

func (f *fakeRuleRepo) UpdateValue(_ context.Context, id int64, r CompensationRule) error {
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules[i] = r
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeRuleRepo) Delete(_ context.Context, id int64) error {
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeRuleRepo) ReferencedByPayslip(_ context.Context, id int64) (bool, error) {
	return f.referenced[id], nil
}

func ptr(v int64) *int64 { return &v }

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func globalRule(id int64, description string, kind Kind, value string) CompensationRule {
	d, _ := decimal.NewFromString(value)
	return CompensationRule{ID: id, Description: description, Kind: kind, ValueKind: ValueAmount, Monetary: true, Value: d}
}

func TestResolveMergesScopes(t *testing.T) {
	repo := &fakeRuleRepo{rules: []CompensationRule{
		globalRule(1, "EPF Employee Contribution", KindDeduction, "0.11"),
		{ID: 2, EmploymentTypeID: ptr(int64(10)), Description: "Base Salary", Kind: KindEarning, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "4000.00")},
		{ID: 3, JobTitleID: ptr(int64(20)), Description: "Base Salary", Kind: KindEarning, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "9000.00")},
	}}
	resolver := NewResolver(repo)

	// Both narrower tiers apply. The job title row wins the collision.
	out, err := resolver.Resolve(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Base Salary", out[0].Description)
	require.Equal(t, "9000.00", out[0].Value.StringFixed(2))
	require.Equal(t, "EPF Employee Contribution", out[1].Description)
}

func TestResolveEmploymentTypeOverridesGlobal(t *testing.T) {
	repo := &fakeRuleRepo{rules: []CompensationRule{
		globalRule(1, "Annual Leave Entitlement", KindEarning, "10.00"),
		{ID: 2, EmploymentTypeID: ptr(int64(10)), Description: "Annual Leave Entitlement", Kind: KindEarning, ValueKind: ValueAmount, Value: mustDec(t, "14.00")},
	}}
	resolver := NewResolver(repo)

	out, err := resolver.Resolve(context.Background(), 999, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "14.00", out[0].Value.StringFixed(2))
	require.Equal(t, ScopeEmploymentType, out[0].Scope())
}

func TestResolveIgnoresOtherScopes(t *testing.T) {
	repo := &fakeRuleRepo{rules: []CompensationRule{
		{ID: 1, JobTitleID: ptr(int64(77)), Description: "Base Salary", Kind: KindEarning, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "16000.00")},
		{ID: 2, EmploymentTypeID: ptr(int64(55)), Description: "Contract Allowance", Kind: KindEarning, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "300.00")},
	}}
	resolver := NewResolver(repo)

	out, err := resolver.Resolve(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestResolveDeterministicOrder(t *testing.T) {
	repo := &fakeRuleRepo{rules: []CompensationRule{
		globalRule(1, "SOCSO Contribution", KindDeduction, "24.75"),
		globalRule(2, "Transport Allowance", KindEarning, "500.00"),
		globalRule(3, "Base Salary", KindEarning, "4000.00"),
		globalRule(4, "EPF Employee Contribution", KindDeduction, "0.11"),
	}}
	resolver := NewResolver(repo)

	first, err := resolver.Resolve(context.Background(), 1, 1)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Earnings precede deductions, each block sorted by description.
	names := make([]string, 0, len(first))
	for _, r := range first {
		names = append(names, r.Description)
	}
	require.Equal(t, []string{
		"Base Salary", "Transport Allowance",
		"EPF Employee Contribution", "SOCSO Contribution",
	}, names)
}

func TestResolvePropagatesStoreError(t *testing.T) {
	repo := &fakeRuleRepo{listErr: errors.New("db down")}
	_, err := NewResolver(repo).Resolve(context.Background(), 1, 1)
	require.Error(t, err)
}
