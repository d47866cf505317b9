package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

// DefaultEmployerContributionRate is the statutory employer cost applied to
// total gross when no override is configured.
var DefaultEmployerContributionRate = decimal.NewFromFloat(0.13)

// Service assembles period summaries. Concurrent requests for the same period
// collapse onto a single aggregation; results are never cached beyond the
// in-flight call because a run may settle more payslips at any time.
type Service struct {
	repo             Repository
	contributionRate decimal.Decimal
	group            singleflight.Group
}

// NewService wires the summary aggregator. A zero contributionRate selects
// the default.
func NewService(repo Repository, contributionRate decimal.Decimal) *Service {
	if contributionRate.IsZero() {
		contributionRate = DefaultEmployerContributionRate
	}
	return &Service{repo: repo, contributionRate: contributionRate}
}

// Summarize aggregates the settled payslips of one period. A period with no
// payslips yields zero totals and an empty department breakdown.
func (s *Service) Summarize(ctx context.Context, period shared.Period) (Summary, error) {
	v, err, _ := s.group.Do(period.String(), func() (any, error) {
		return s.summarize(ctx, period)
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

func (s *Service) summarize(ctx context.Context, period shared.Period) (Summary, error) {
	totals, err := s.repo.PeriodTotals(ctx, period.Start())
	if err != nil {
		return Summary{}, err
	}
	byDept, err := s.repo.NetPayByDepartment(ctx, period.Start())
	if err != nil {
		return Summary{}, fmt.Errorf("department breakdown: %w", err)
	}

	contribution := shared.Round2(totals.GrossEarnings.Mul(s.contributionRate))
	return Summary{
		Period:               period.String(),
		PayslipCount:         totals.PayslipCount,
		TotalGross:           totals.GrossEarnings,
		TotalDeductions:      totals.TotalDeductions,
		TotalNet:             totals.NetPay,
		EmployerContribution: contribution,
		TotalPayout:          totals.GrossEarnings.Add(contribution),
		NetPayByDepartment:   byDept,
	}, nil
}
