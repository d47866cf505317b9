package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func earningRule(t *testing.T, description, value string) rules.CompensationRule {
	t.Helper()
	return rules.CompensationRule{
		Description: description,
		Kind:        rules.KindEarning,
		ValueKind:   rules.ValueAmount,
		Monetary:    true,
		Value:       dec(t, value),
	}
}

func deductionRule(t *testing.T, description string, valueKind rules.ValueKind, value string) rules.CompensationRule {
	t.Helper()
	return rules.CompensationRule{
		Description: description,
		Kind:        rules.KindDeduction,
		ValueKind:   valueKind,
		Monetary:    true,
		Value:       dec(t, value),
	}
}

func testPeriod(t *testing.T) shared.Period {
	t.Helper()
	p, err := shared.PeriodOf(2025, 7)
	require.NoError(t, err)
	return p
}

func TestCalculateStatutoryDeductions(t *testing.T) {
	emp := employee.Employee{ID: 1, FirstName: "Aisha", LastName: "Rahman"}
	period := testPeriod(t)
	ruleSet := []rules.CompensationRule{
		earningRule(t, "Base Salary", "10000.00"),
		deductionRule(t, "EPF Employee Contribution", rules.ValueRate, "0.11"),
		deductionRule(t, "SOCSO Contribution", rules.ValueAmount, "24.75"),
		deductionRule(t, "EIS Contribution", rules.ValueRate, "0.002"),
	}

	slip := Calculate(emp, period, ruleSet, nil)

	require.Equal(t, "10000.00", slip.GrossEarnings.StringFixed(2))
	require.Equal(t, "1144.75", slip.TotalDeductions.StringFixed(2))
	require.Equal(t, "8855.25", slip.NetPay.StringFixed(2))
	require.Equal(t, period.Start(), slip.PeriodStart)
	require.Equal(t, period.End(), slip.PeriodEnd)

	byName := map[string]PayItem{}
	for _, it := range slip.Items {
		byName[it.Name] = it
	}
	require.Equal(t, "1100.00", byName["EPF Employee Contribution"].Amount.StringFixed(2))
	require.Equal(t, "24.75", byName["SOCSO Contribution"].Amount.StringFixed(2))
	require.Equal(t, "20.00", byName["EIS Contribution"].Amount.StringFixed(2))
}

func TestCalculateDeterministic(t *testing.T) {
	emp := employee.Employee{ID: 7}
	period := testPeriod(t)
	ruleSet := []rules.CompensationRule{
		earningRule(t, "Base Salary", "4000.00"),
		earningRule(t, "Transport Allowance", "500.00"),
		deductionRule(t, "EPF Employee Contribution", rules.ValueRate, "0.11"),
	}
	earnings := []bonus.Bonus{
		{EmployeeID: 7, PeriodStart: period.Start(), Name: "Spot Bonus", Amount: dec(t, "250.00"), Approved: true},
	}

	first := Calculate(emp, period, ruleSet, earnings)
	second := Calculate(emp, period, ruleSet, earnings)
	require.Equal(t, first, second)
}

func TestCalculateNetEqualsRoundedGrossMinusRoundedDeductions(t *testing.T) {
	emp := employee.Employee{ID: 2}
	period := testPeriod(t)
	// Sub-cent amounts accumulate at full precision; only the totals round.
	ruleSet := []rules.CompensationRule{
		earningRule(t, "Base Salary", "3333.333"),
		earningRule(t, "Shift Allowance", "3333.333"),
		earningRule(t, "On-call Allowance", "3333.333"),
		deductionRule(t, "EPF Employee Contribution", rules.ValueRate, "0.11"),
	}

	slip := Calculate(emp, period, ruleSet, nil)

	require.Equal(t, "10000.00", slip.GrossEarnings.StringFixed(2))
	require.Equal(t, "1100.00", slip.TotalDeductions.StringFixed(2))
	require.True(t, slip.NetPay.Equal(slip.GrossEarnings.Sub(slip.TotalDeductions)))
}

func TestCalculateSkipsNonMonetaryEarnings(t *testing.T) {
	emp := employee.Employee{ID: 3}
	period := testPeriod(t)
	leave := rules.CompensationRule{
		Description: "Annual Leave Entitlement",
		Kind:        rules.KindEarning,
		ValueKind:   rules.ValueAmount,
		Monetary:    false,
		Value:       dec(t, "14.00"),
	}
	ruleSet := []rules.CompensationRule{
		earningRule(t, "Base Salary", "9000.00"),
		leave,
	}

	slip := Calculate(emp, period, ruleSet, nil)

	require.Equal(t, "9000.00", slip.GrossEarnings.StringFixed(2))
	require.Len(t, slip.Items, 1)
	require.Equal(t, "Base Salary", slip.Items[0].Name)
}

func TestCalculateBonusFiltering(t *testing.T) {
	emp := employee.Employee{ID: 3}
	period := testPeriod(t)
	other, err := shared.PeriodOf(2025, 6)
	require.NoError(t, err)
	ruleSet := []rules.CompensationRule{earningRule(t, "Base Salary", "8500.00")}
	earnings := []bonus.Bonus{
		{EmployeeID: 3, PeriodStart: period.Start(), Name: "Q2 High Performance Bonus", Amount: dec(t, "1000.00"), Approved: true},
		{EmployeeID: 3, PeriodStart: period.Start(), Name: "Unapproved Bonus", Amount: dec(t, "9999.00"), Approved: false},
		{EmployeeID: 3, PeriodStart: other.Start(), Name: "Last Month Bonus", Amount: dec(t, "500.00"), Approved: true},
	}

	slip := Calculate(emp, period, ruleSet, earnings)

	require.Equal(t, "9500.00", slip.GrossEarnings.StringFixed(2))
	require.Len(t, slip.Items, 2)
	require.Equal(t, "Q2 High Performance Bonus", slip.Items[1].Name)
}

func TestCalculateEmptyRuleSet(t *testing.T) {
	emp := employee.Employee{ID: 4}
	slip := Calculate(emp, testPeriod(t), nil, nil)

	require.True(t, slip.GrossEarnings.IsZero())
	require.True(t, slip.TotalDeductions.IsZero())
	require.True(t, slip.NetPay.IsZero())
	require.Empty(t, slip.Items)
}

func TestCalculateNegativeNetAllowed(t *testing.T) {
	emp := employee.Employee{ID: 5}
	ruleSet := []rules.CompensationRule{
		earningRule(t, "Base Salary", "100.00"),
		deductionRule(t, "Equipment Recovery", rules.ValueAmount, "250.00"),
	}

	slip := Calculate(emp, testPeriod(t), ruleSet, nil)
	require.Equal(t, "-150.00", slip.NetPay.StringFixed(2))
}
