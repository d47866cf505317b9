package report

import (
	"github.com/shopspring/decimal"
)

// Totals are the period aggregates read from settled payslips.
type Totals struct {
	PayslipCount    int
	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// Summary is the finance-facing period report. EmployerContribution is
// derived from gross at the configured statutory rate and TotalPayout is the
// full cost of the period to the company.
type Summary struct {
	Period               string
	PayslipCount         int
	TotalGross           decimal.Decimal
	TotalDeductions      decimal.Decimal
	TotalNet             decimal.Decimal
	EmployerContribution decimal.Decimal
	TotalPayout          decimal.Decimal
	NetPayByDepartment   map[string]decimal.Decimal
}
