package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wagebook-hr/wagebook/internal/platform/db"
)

// Repository owns the payslip and pay item tables. No other component writes
// them.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	Get(ctx context.Context, id int64) (Payslip, error)
	GetLatestForEmployee(ctx context.Context, employeeID int64) (Payslip, error)
	ListSummaries(ctx context.Context) ([]PayslipSummary, error)
	ListPeriods(ctx context.Context) ([]string, error)
}

// TxRepository is the slice of operations available inside one employee's
// settlement transaction.
type TxRepository interface {
	// ExistsForPeriod is the idempotency fast path. The unique constraint on
	// (employee_id, period_start) remains the authoritative guard.
	ExistsForPeriod(ctx context.Context, employeeID int64, periodStart time.Time) (bool, error)
	// InsertPayslip persists the settlement record and returns its id,
	// translating a unique violation into ErrDuplicatePayslip.
	InsertPayslip(ctx context.Context, p Payslip) (int64, error)
	InsertPayItems(ctx context.Context, payslipID int64, items []PayItem) error
}

var (
	_ Repository   = (*pgRepository)(nil)
	_ TxRepository = (*pgTxRepository)(nil)
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed payslip store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTxRepository{tx: tx})
	})
}

const payslipColumns = `id, employee_id, period_start, period_end, gross_earnings, total_deductions, net_pay`

func (r *pgRepository) Get(ctx context.Context, id int64) (Payslip, error) {
	var p Payslip
	err := r.pool.QueryRow(ctx, `
		SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id).
		Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd, &p.GrossEarnings, &p.TotalDeductions, &p.NetPay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payslip{}, ErrPayslipNotFound
		}
		return Payslip{}, fmt.Errorf("payroll: get payslip %d: %w", id, err)
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	p.Items = items
	return p, nil
}

func (r *pgRepository) GetLatestForEmployee(ctx context.Context, employeeID int64) (Payslip, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM payslips WHERE employee_id = $1
		ORDER BY period_end DESC LIMIT 1`, employeeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payslip{}, ErrPayslipNotFound
		}
		return Payslip{}, fmt.Errorf("payroll: latest payslip for %d: %w", employeeID, err)
	}
	return r.Get(ctx, id)
}

func (r *pgRepository) listItems(ctx context.Context, payslipID int64) ([]PayItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, payslip_id, name, kind, amount FROM pay_items
		WHERE payslip_id = $1 ORDER BY id`, payslipID)
	if err != nil {
		return nil, fmt.Errorf("payroll: list items %d: %w", payslipID, err)
	}
	defer rows.Close()

	var items []PayItem
	for rows.Next() {
		var it PayItem
		if err := rows.Scan(&it.ID, &it.PayslipID, &it.Name, &it.Kind, &it.Amount); err != nil {
			return nil, fmt.Errorf("payroll: scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgRepository) ListSummaries(ctx context.Context) ([]PayslipSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.employee_id, e.first_name || ' ' || e.last_name, p.period_start, p.net_pay
		FROM payslips p
		JOIN employees e ON p.employee_id = e.id
		ORDER BY p.period_start DESC, e.last_name`)
	if err != nil {
		return nil, fmt.Errorf("payroll: list summaries: %w", err)
	}
	defer rows.Close()

	var out []PayslipSummary
	for rows.Next() {
		var s PayslipSummary
		if err := rows.Scan(&s.PayslipID, &s.EmployeeID, &s.EmployeeName, &s.PeriodStart, &s.NetPay); err != nil {
			return nil, fmt.Errorf("payroll: scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *pgRepository) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT TO_CHAR(period_start, 'YYYY-MM') AS period
		FROM payslips ORDER BY period DESC`)
	if err != nil {
		return nil, fmt.Errorf("payroll: list periods: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, err
		}
		out = append(out, period)
	}
	return out, rows.Err()
}

type pgTxRepository struct {
	tx pgx.Tx
}

func (r *pgTxRepository) ExistsForPeriod(ctx context.Context, employeeID int64, periodStart time.Time) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payslips WHERE employee_id = $1 AND period_start = $2)`,
		employeeID, periodStart).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payroll: existence check: %w", err)
	}
	return exists, nil
}

func (r *pgTxRepository) InsertPayslip(ctx context.Context, p Payslip) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO payslips (employee_id, period_start, period_end, gross_earnings, total_deductions, net_pay)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.EmployeeID, p.PeriodStart, p.PeriodEnd, p.GrossEarnings, p.TotalDeductions, p.NetPay,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicatePayslip
		}
		return 0, fmt.Errorf("payroll: insert payslip: %w", err)
	}
	return id, nil
}

func (r *pgTxRepository) InsertPayItems(ctx context.Context, payslipID int64, items []PayItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO pay_items (payslip_id, name, kind, amount)
			VALUES ($1, $2, $3, $4)`,
			payslipID, it.Name, string(it.Kind), it.Amount)
	}
	results := r.tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("payroll: insert pay item: %w", err)
		}
	}
	return nil
}
