package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Calculate builds a payslip draft from resolved rules and approved variable
// earnings. It is pure: no storage access, deterministic for identical inputs.
//
// Sums accumulate at full precision; the three exposed totals are rounded to
// two decimals half up exactly once, when the payslip is assembled. Item
// amounts are rounded independently for presentation and never feed back into
// the totals, so net pay always equals the rounded gross minus the rounded
// deductions.
func Calculate(emp employee.Employee, period shared.Period, ruleSet []rules.CompensationRule, earnings []bonus.Bonus) Payslip {
	var items []PayItem
	gross := decimal.Zero

	// Earnings from the rule hierarchy. Non-monetary rules (e.g. leave
	// entitlements) carry no money and produce no item.
	for _, rule := range ruleSet {
		if rule.Kind != rules.KindEarning || !rule.Monetary {
			continue
		}
		gross = gross.Add(rule.Value)
		items = append(items, PayItem{
			Name:   rule.Description,
			Kind:   rules.KindEarning,
			Amount: shared.Round2(rule.Value),
		})
	}

	// Variable earnings for the period, already vetted by the approval
	// workflow. Unapproved rows never reach this function.
	for _, b := range earnings {
		if !b.Approved || !b.PeriodStart.Equal(period.Start()) {
			continue
		}
		gross = gross.Add(b.Amount)
		items = append(items, PayItem{
			Name:   b.Name,
			Kind:   rules.KindEarning,
			Amount: shared.Round2(b.Amount),
		})
	}

	// Deductions resolve after gross pay is final: rate values apply against
	// gross, amounts are taken literally.
	totalDeductions := decimal.Zero
	for _, rule := range ruleSet {
		if rule.Kind != rules.KindDeduction {
			continue
		}
		amount := rule.Value
		if rule.ValueKind == rules.ValueRate {
			amount = gross.Mul(rule.Value)
		}
		totalDeductions = totalDeductions.Add(amount)
		items = append(items, PayItem{
			Name:   rule.Description,
			Kind:   rules.KindDeduction,
			Amount: shared.Round2(amount),
		})
	}

	grossRounded := shared.Round2(gross)
	deductionsRounded := shared.Round2(totalDeductions)

	return Payslip{
		EmployeeID:      emp.ID,
		PeriodStart:     period.Start(),
		PeriodEnd:       period.End(),
		GrossEarnings:   grossRounded,
		TotalDeductions: deductionsRounded,
		NetPay:          grossRounded.Sub(deductionsRounded),
		Items:           items,
	}
}
