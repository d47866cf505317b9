package payroll

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

var (
	// ErrPayslipNotFound indicates no payslip matched the query.
	ErrPayslipNotFound = errors.New("payslip not found")
	// ErrDuplicatePayslip indicates the (employee, period) pair already settled.
	ErrDuplicatePayslip = errors.New("payslip already exists for employee and period")
	// ErrEmployeeInactive indicates a targeted run named an inactive employee.
	ErrEmployeeInactive = errors.New("employee is not active")
)

// PayItem is one line of a payslip. Owned by its payslip, written atomically
// with it, never updated afterwards.
type PayItem struct {
	ID        int64
	PayslipID int64
	Name      string
	Kind      rules.Kind
	Amount    decimal.Decimal
}

// Payslip is the immutable settlement record for one employee and period.
// NetPay always equals GrossEarnings minus TotalDeductions, each rounded to
// two decimals half up.
type Payslip struct {
	ID              int64
	EmployeeID      int64
	PeriodStart     time.Time
	PeriodEnd       time.Time
	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	Items           []PayItem
}

// PayslipSummary is the listing row for reporting callers.
type PayslipSummary struct {
	PayslipID    int64
	EmployeeID   int64
	EmployeeName string
	PeriodStart  time.Time
	NetPay       decimal.Decimal
}

// TargetAll selects the whole active employee population for a run.
const TargetAll int64 = 0

// RunResult accounts for every employee the run touched.
type RunResult struct {
	RunID     string
	Period    shared.Period
	Processed int
	Skipped   int
	Failed    int
}

// Summary renders the caller-facing one-line accounting of a run.
func (r RunResult) Summary() string {
	return fmt.Sprintf("Processed: %d, Skipped: %d, Failed: %d", r.Processed, r.Skipped, r.Failed)
}
