package bonus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

var (
	// ErrInvalidBonus indicates a bonus that fails validation.
	ErrInvalidBonus = errors.New("invalid bonus")
	// ErrAlreadyApproved indicates the bonus was approved earlier.
	ErrAlreadyApproved = errors.New("bonus already approved")
)

// Service implements the manager-facing bonus workflow. Bonuses are always
// earnings; approval is the gate the payroll engine trusts.
type Service struct {
	repo Repository
}

// NewService constructs the bonus service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a bonus for an employee and period. A bonus created by the
// assigning manager is approved immediately.
func (s *Service) Create(ctx context.Context, b Bonus) (Bonus, error) {
	if b.EmployeeID == 0 {
		return Bonus{}, fmt.Errorf("%w: employee required", ErrInvalidBonus)
	}
	if b.Name == "" {
		return Bonus{}, fmt.Errorf("%w: name required", ErrInvalidBonus)
	}
	if !b.Amount.IsPositive() {
		return Bonus{}, fmt.Errorf("%w: amount must be positive", ErrInvalidBonus)
	}
	if b.PeriodStart.IsZero() {
		return Bonus{}, fmt.Errorf("%w: period required", ErrInvalidBonus)
	}
	b.PeriodStart = shared.PeriodFromDate(b.PeriodStart).Start()
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Bonus{}, err
	}
	return created, nil
}

// Approve marks a pending bonus approved by the given approver.
func (s *Service) Approve(ctx context.Context, bonusID, approverID int64) error {
	updated, err := s.repo.Approve(ctx, bonusID, approverID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrAlreadyApproved
	}
	return nil
}

// ListPending returns all unapproved bonuses.
func (s *Service) ListPending(ctx context.Context) ([]Bonus, error) {
	return s.repo.ListPending(ctx)
}

// ListPendingByDepartment returns unapproved bonuses for one department.
func (s *Service) ListPendingByDepartment(ctx context.Context, departmentID int64) ([]Bonus, error) {
	return s.repo.ListPendingByDepartment(ctx, departmentID)
}

// ApprovedForPeriod returns the approved variable earnings the engine folds
// into a payslip.
func (s *Service) ApprovedForPeriod(ctx context.Context, employeeID int64, periodStart time.Time) ([]Bonus, error) {
	return s.repo.ListApproved(ctx, employeeID, periodStart)
}
