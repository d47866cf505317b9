package bonus

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores variable earnings. ListApproved is the engine-facing read
// path; the rest serves the manager approval workflow.
type Repository interface {
	ListApproved(ctx context.Context, employeeID int64, periodStart time.Time) ([]Bonus, error)
	Create(ctx context.Context, b Bonus) (Bonus, error)
	Approve(ctx context.Context, bonusID, approverID int64) (bool, error)
	ListPending(ctx context.Context) ([]Bonus, error)
	ListPendingByDepartment(ctx context.Context, departmentID int64) ([]Bonus, error)
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed bonus store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) ListApproved(ctx context.Context, employeeID int64, periodStart time.Time) ([]Bonus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, period_start, name, amount, approved, approved_by
		FROM bonuses
		WHERE employee_id = $1 AND period_start = $2 AND approved
		ORDER BY id`, employeeID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("bonus: list approved: %w", err)
	}
	return collect(rows, false)
}

func (r *pgRepository) Create(ctx context.Context, b Bonus) (Bonus, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bonuses (employee_id, period_start, name, amount, approved, approved_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		b.EmployeeID, b.PeriodStart, b.Name, b.Amount, b.Approved, b.ApprovedBy,
	).Scan(&b.ID)
	if err != nil {
		return Bonus{}, fmt.Errorf("bonus: create: %w", err)
	}
	return b, nil
}

func (r *pgRepository) Approve(ctx context.Context, bonusID, approverID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bonuses SET approved = true, approved_by = $1
		WHERE id = $2 AND NOT approved`, approverID, bonusID)
	if err != nil {
		return false, fmt.Errorf("bonus: approve %d: %w", bonusID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgRepository) ListPending(ctx context.Context) ([]Bonus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.employee_id, b.period_start, b.name, b.amount, b.approved, b.approved_by,
		       e.first_name || ' ' || e.last_name
		FROM bonuses b
		JOIN employees e ON b.employee_id = e.id
		WHERE NOT b.approved
		ORDER BY b.period_start, e.last_name`)
	if err != nil {
		return nil, fmt.Errorf("bonus: list pending: %w", err)
	}
	return collect(rows, true)
}

func (r *pgRepository) ListPendingByDepartment(ctx context.Context, departmentID int64) ([]Bonus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.employee_id, b.period_start, b.name, b.amount, b.approved, b.approved_by,
		       e.first_name || ' ' || e.last_name
		FROM bonuses b
		JOIN employees e ON b.employee_id = e.id
		JOIN job_titles j ON e.job_title_id = j.id
		WHERE j.department_id = $1 AND NOT b.approved
		ORDER BY b.period_start, e.last_name`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("bonus: list pending by department: %w", err)
	}
	return collect(rows, true)
}

func collect(rows pgx.Rows, withName bool) ([]Bonus, error) {
	defer rows.Close()
	var out []Bonus
	for rows.Next() {
		var b Bonus
		var err error
		if withName {
			err = rows.Scan(&b.ID, &b.EmployeeID, &b.PeriodStart, &b.Name, &b.Amount, &b.Approved, &b.ApprovedBy, &b.EmployeeName)
		} else {
			err = rows.Scan(&b.ID, &b.EmployeeID, &b.PeriodStart, &b.Name, &b.Amount, &b.Approved, &b.ApprovedBy)
		}
		if err != nil {
			return nil, fmt.Errorf("bonus: scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
