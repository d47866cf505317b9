package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Repository reads employee and reference data. The payroll engine never
// writes through this interface.
type Repository interface {
	Get(ctx context.Context, id int64) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListJobTitles(ctx context.Context) ([]JobTitle, error)
	ListEmploymentTypes(ctx context.Context) ([]EmploymentType, error)
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const employeeColumns = `
	e.id, e.first_name, e.last_name, e.job_title_id, e.employment_type_id, e.active,
	COALESCE(j.title, ''), COALESCE(d.name, '')`

const employeeJoins = `
	FROM employees e
	LEFT JOIN job_titles j ON e.job_title_id = j.id
	LEFT JOIN departments d ON j.department_id = d.id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.JobTitleID, &e.EmploymentTypeID, &e.Active, &e.JobTitle, &e.DepartmentName)
	return e, err
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx, `SELECT`+employeeColumns+employeeJoins+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, fmt.Errorf("employee: get %d: %w", id, err)
	}
	return e, nil
}

func (r *pgRepository) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+employeeColumns+employeeJoins+` WHERE e.active ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("employee: list active: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("employee: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *pgRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("employee: list departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *pgRepository) ListJobTitles(ctx context.Context) ([]JobTitle, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, department_id, title, level FROM job_titles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("employee: list job titles: %w", err)
	}
	defer rows.Close()

	var out []JobTitle
	for rows.Next() {
		var j JobTitle
		if err := rows.Scan(&j.ID, &j.DepartmentID, &j.Title, &j.Level); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *pgRepository) ListEmploymentTypes(ctx context.Context) ([]EmploymentType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM employment_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("employee: list employment types: %w", err)
	}
	defer rows.Close()

	var out []EmploymentType
	for rows.Next() {
		var t EmploymentType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
