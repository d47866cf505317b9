package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// RuleSource resolves the effective compensation rule set for an employee.
type RuleSource interface {
	Resolve(ctx context.Context, jobTitleID, employmentTypeID int64) ([]rules.CompensationRule, error)
}

// BonusSource lists approved variable earnings for an employee and period.
type BonusSource interface {
	ApprovedForPeriod(ctx context.Context, employeeID int64, periodStart time.Time) ([]bonus.Bonus, error)
}

// Service orchestrates payroll runs and serves payslip queries.
type Service struct {
	repo      Repository
	employees employee.Repository
	ruleSet   RuleSource
	bonuses   BonusSource
	lock      *shared.RunLock
	logger    *slog.Logger
}

// NewService wires the run orchestrator.
func NewService(repo Repository, employees employee.Repository, ruleSet RuleSource, bonuses BonusSource, lock *shared.RunLock, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		ruleSet:   ruleSet,
		bonuses:   bonuses,
		lock:      lock,
		logger:    logger,
	}
}

// Run settles the period for the target population. Target TargetAll selects
// every active employee; any other value selects that single employee.
//
// Each employee settles in its own transaction. A failure rolls back only that
// employee's work and the run continues, so one bad record never poisons the
// batch. Re-running a settled period counts the settled employees as skipped
// and writes nothing for them.
func (s *Service) Run(ctx context.Context, period shared.Period, target int64) (RunResult, error) {
	result := RunResult{RunID: uuid.NewString(), Period: period}

	token, err := s.lock.Acquire(ctx, period)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), period, token); err != nil {
			s.logger.Warn("run lock release failed", "run_id", result.RunID, "error", err)
		}
	}()

	population, err := s.population(ctx, target)
	if err != nil {
		return result, err
	}

	s.logger.Info("payroll run started",
		"run_id", result.RunID, "period", period.String(), "population", len(population))

	for _, emp := range population {
		switch err := s.settle(ctx, period, emp); {
		case err == nil:
			result.Processed++
		case errors.Is(err, ErrDuplicatePayslip):
			result.Skipped++
		default:
			result.Failed++
			s.logger.Error("employee settlement failed",
				"run_id", result.RunID, "employee_id", emp.ID, "error", err)
		}
	}

	s.logger.Info("payroll run finished",
		"run_id", result.RunID, "period", period.String(),
		"processed", result.Processed, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// population materialises the employee set for the run. Fetch failures here
// abort the run before any settlement work starts.
func (s *Service) population(ctx context.Context, target int64) ([]employee.Employee, error) {
	if target == TargetAll {
		return s.employees.ListActive(ctx)
	}
	emp, err := s.employees.Get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("payroll: target employee %d: %w", target, err)
	}
	if !emp.Active {
		return nil, fmt.Errorf("payroll: target employee %d: %w", target, ErrEmployeeInactive)
	}
	return []employee.Employee{emp}, nil
}

// settle computes and persists one employee's payslip atomically. It returns
// ErrDuplicatePayslip when the period is already settled for the employee.
func (s *Service) settle(ctx context.Context, period shared.Period, emp employee.Employee) error {
	ruleSet, err := s.ruleSet.Resolve(ctx, emp.JobTitleID, emp.EmploymentTypeID)
	if err != nil {
		return fmt.Errorf("resolve rules: %w", err)
	}
	earnings, err := s.bonuses.ApprovedForPeriod(ctx, emp.ID, period.Start())
	if err != nil {
		return fmt.Errorf("list approved bonuses: %w", err)
	}

	slip := Calculate(emp, period, ruleSet, earnings)

	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		settled, err := tx.ExistsForPeriod(ctx, emp.ID, period.Start())
		if err != nil {
			return err
		}
		if settled {
			return ErrDuplicatePayslip
		}
		id, err := tx.InsertPayslip(ctx, slip)
		if err != nil {
			return err
		}
		return tx.InsertPayItems(ctx, id, slip.Items)
	})
}

// Payslip fetches one payslip with its items.
func (s *Service) Payslip(ctx context.Context, id int64) (Payslip, error) {
	return s.repo.Get(ctx, id)
}

// LatestPayslip fetches the employee's most recent payslip.
func (s *Service) LatestPayslip(ctx context.Context, employeeID int64) (Payslip, error) {
	return s.repo.GetLatestForEmployee(ctx, employeeID)
}

// ListSummaries lists all payslips as summary rows, newest period first.
func (s *Service) ListSummaries(ctx context.Context) ([]PayslipSummary, error) {
	return s.repo.ListSummaries(ctx)
}

// ListPeriods lists the distinct settled periods, newest first.
func (s *Service) ListPeriods(ctx context.Context) ([]string, error) {
	return s.repo.ListPeriods(ctx)
}
