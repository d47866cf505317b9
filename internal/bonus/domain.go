package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bonus is a one-off approved earning attached to an employee and a pay
// period. Only approved rows for the exact period start enter a payroll run;
// the engine trusts the flag set by the approval workflow.
type Bonus struct {
	ID          int64
	EmployeeID  int64
	PeriodStart time.Time
	Name        string
	Amount      decimal.Decimal
	Approved    bool
	ApprovedBy  *int64

	// EmployeeName is joined for the pending listings only.
	EmployeeName string
}
