package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository reads period aggregates from the payslip tables.
type Repository interface {
	PeriodTotals(ctx context.Context, periodStart time.Time) (Totals, error)
	NetPayByDepartment(ctx context.Context, periodStart time.Time) (map[string]decimal.Decimal, error)
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed report reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) PeriodTotals(ctx context.Context, periodStart time.Time) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(gross_earnings), 0),
		       COALESCE(SUM(total_deductions), 0),
		       COALESCE(SUM(net_pay), 0)
		FROM payslips WHERE period_start = $1`, periodStart).
		Scan(&t.PayslipCount, &t.GrossEarnings, &t.TotalDeductions, &t.NetPay)
	if err != nil {
		return Totals{}, fmt.Errorf("report: period totals: %w", err)
	}
	return t, nil
}

func (r *pgRepository) NetPayByDepartment(ctx context.Context, periodStart time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(d.name, 'Unassigned'), SUM(p.net_pay)
		FROM payslips p
		JOIN employees e ON p.employee_id = e.id
		LEFT JOIN job_titles j ON e.job_title_id = j.id
		LEFT JOIN departments d ON j.department_id = d.id
		WHERE p.period_start = $1
		GROUP BY 1`, periodStart)
	if err != nil {
		return nil, fmt.Errorf("report: net pay by department: %w", err)
	}
	defer rows.Close()

	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var name string
		var net decimal.Decimal
		if err := rows.Scan(&name, &net); err != nil {
			return nil, fmt.Errorf("report: scan department row: %w", err)
		}
		out[name] = net
	}
	return out, rows.Err()
}
