package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

func TestCreateValidRule(t *testing.T) {
	repo := &fakeRuleRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CompensationRule{
		JobTitleID:  ptr(int64(5)),
		Description: "Base Salary",
		Kind:        KindEarning,
		ValueKind:   ValueAmount,
		Monetary:    true,
		Value:       mustDec(t, "4000.00"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, ScopeJobTitle, created.Scope())
}

func TestCreateRejectsInvalidRules(t *testing.T) {
	svc := NewService(&fakeRuleRepo{})

	cases := map[string]CompensationRule{
		"missing description": {Kind: KindEarning, ValueKind: ValueAmount, Value: mustDec(t, "1.00")},
		"unknown kind":        {Description: "X", Kind: Kind("OTHER"), ValueKind: ValueAmount, Value: mustDec(t, "1.00")},
		"rate on earning":     {Description: "X", Kind: KindEarning, ValueKind: ValueRate, Value: mustDec(t, "0.1")},
		"rate above one":      {Description: "X", Kind: KindDeduction, ValueKind: ValueRate, Value: mustDec(t, "1.5")},
		"negative amount":     {Description: "X", Kind: KindDeduction, ValueKind: ValueAmount, Value: mustDec(t, "-5.00")},
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), rule)
			require.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestUpdateValueOnUnreferencedRule(t *testing.T) {
	repo := &fakeRuleRepo{
		rules: []CompensationRule{
			{ID: 1, Description: "SOCSO Contribution", Kind: KindDeduction, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "24.75")},
		},
		referenced: map[int64]bool{},
	}
	svc := NewService(repo)

	require.NoError(t, svc.UpdateValue(context.Background(), 1, mustDec(t, "29.75")))
	got, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "29.75", got.Value.StringFixed(2))
}

func TestUpdateValueRefusedWhenFrozen(t *testing.T) {
	repo := &fakeRuleRepo{
		rules: []CompensationRule{
			{ID: 1, Description: "SOCSO Contribution", Kind: KindDeduction, ValueKind: ValueAmount, Monetary: true, Value: mustDec(t, "24.75")},
		},
		referenced: map[int64]bool{1: true},
	}
	svc := NewService(repo)

	err := svc.UpdateValue(context.Background(), 1, mustDec(t, "30.00"))
	require.ErrorIs(t, err, ErrRuleReferenced)

	got, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "24.75", got.Value.StringFixed(2))
}

func TestDeleteRefusedWhenFrozen(t *testing.T) {
	repo := &fakeRuleRepo{
		rules:      []CompensationRule{globalRule(1, "EPF Employee Contribution", KindDeduction, "0.11")},
		referenced: map[int64]bool{1: true},
	}
	svc := NewService(repo)

	require.ErrorIs(t, svc.Delete(context.Background(), 1), ErrRuleReferenced)
	_, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
}

func TestDeleteUnknownRule(t *testing.T) {
	svc := NewService(&fakeRuleRepo{referenced: map[int64]bool{}})
	require.ErrorIs(t, svc.Delete(context.Background(), 42), shared.ErrNotFound)
}

func TestLegacyClassification(t *testing.T) {
	require.Equal(t, ValueRate, LegacyValueKind(KindDeduction, "EPF Employee Contribution"))
	require.Equal(t, ValueRate, LegacyValueKind(KindDeduction, "EIS Contribution"))
	require.Equal(t, ValueAmount, LegacyValueKind(KindDeduction, "SOCSO Contribution"))
	require.Equal(t, ValueAmount, LegacyValueKind(KindEarning, "EPF Matching Grant"))

	require.False(t, LegacyMonetary("Annual Leave Entitlement"))
	require.True(t, LegacyMonetary("Base Salary"))
}
