package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Repository stores compensation rules. The resolution path is read-only;
// the admin path mutates rules not yet referenced by a persisted payslip.
type Repository interface {
	// ListForEmployee fetches all rules matching any of the three scopes that
	// apply to the given employee coordinates.
	ListForEmployee(ctx context.Context, jobTitleID, employmentTypeID int64) ([]CompensationRule, error)
	ListByJobTitle(ctx context.Context, jobTitleID int64) ([]CompensationRule, error)
	Get(ctx context.Context, id int64) (CompensationRule, error)
	Create(ctx context.Context, rule CompensationRule) (CompensationRule, error)
	UpdateValue(ctx context.Context, id int64, value CompensationRule) error
	Delete(ctx context.Context, id int64) error
	// ReferencedByPayslip reports whether any persisted pay item was produced
	// from this rule, which freezes it.
	ReferencedByPayslip(ctx context.Context, id int64) (bool, error)
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed rule store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const ruleColumns = `id, job_title_id, employment_type_id, description, kind, value_kind, monetary, value`

func scanRule(row pgx.Row) (CompensationRule, error) {
	var r CompensationRule
	var valueKind *string
	var monetary *bool
	err := row.Scan(&r.ID, &r.JobTitleID, &r.EmploymentTypeID, &r.Description, &r.Kind, &valueKind, &monetary, &r.Value)
	if err != nil {
		return CompensationRule{}, err
	}
	// Backfill classification for rows seeded before the explicit columns.
	if valueKind != nil {
		r.ValueKind = ValueKind(*valueKind)
	} else {
		r.ValueKind = LegacyValueKind(r.Kind, r.Description)
	}
	if monetary != nil {
		r.Monetary = *monetary
	} else {
		r.Monetary = LegacyMonetary(r.Description)
	}
	return r, nil
}

func collectRules(rows pgx.Rows) ([]CompensationRule, error) {
	defer rows.Close()
	var out []CompensationRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("rules: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (r *pgRepository) ListForEmployee(ctx context.Context, jobTitleID, employmentTypeID int64) ([]CompensationRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+` FROM compensation_rules
		WHERE (job_title_id IS NULL AND employment_type_id IS NULL)
		   OR (job_title_id IS NULL AND employment_type_id = $1)
		   OR (job_title_id = $2)
		ORDER BY id`, employmentTypeID, jobTitleID)
	if err != nil {
		return nil, fmt.Errorf("rules: list for employee: %w", err)
	}
	return collectRules(rows)
}

func (r *pgRepository) ListByJobTitle(ctx context.Context, jobTitleID int64) ([]CompensationRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+` FROM compensation_rules WHERE job_title_id = $1 ORDER BY id`, jobTitleID)
	if err != nil {
		return nil, fmt.Errorf("rules: list by job title: %w", err)
	}
	return collectRules(rows)
}

func (r *pgRepository) Get(ctx context.Context, id int64) (CompensationRule, error) {
	rule, err := scanRule(r.pool.QueryRow(ctx, `
		SELECT `+ruleColumns+` FROM compensation_rules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompensationRule{}, shared.ErrNotFound
		}
		return CompensationRule{}, fmt.Errorf("rules: get %d: %w", id, err)
	}
	return rule, nil
}

func (r *pgRepository) Create(ctx context.Context, rule CompensationRule) (CompensationRule, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO compensation_rules (job_title_id, employment_type_id, description, kind, value_kind, monetary, value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rule.JobTitleID, rule.EmploymentTypeID, rule.Description,
		string(rule.Kind), string(rule.ValueKind), rule.Monetary, rule.Value,
	).Scan(&rule.ID)
	if err != nil {
		return CompensationRule{}, fmt.Errorf("rules: create: %w", err)
	}
	return rule, nil
}

func (r *pgRepository) UpdateValue(ctx context.Context, id int64, rule CompensationRule) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE compensation_rules SET value = $2, value_kind = $3 WHERE id = $1`,
		id, rule.Value, string(rule.ValueKind))
	if err != nil {
		return fmt.Errorf("rules: update %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compensation_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("rules: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) ReferencedByPayslip(ctx context.Context, id int64) (bool, error) {
	var referenced bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pay_items pi
			JOIN compensation_rules cr ON cr.id = $1
			WHERE pi.name = cr.description
		)`, id).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("rules: referenced check %d: %w", id, err)
	}
	return referenced, nil
}
