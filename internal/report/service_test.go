package report

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wagebook-hr/wagebook/internal/shared"
)

type fakeReportRepo struct {
	totals Totals
	byDept map[string]decimal.Decimal

	calls int32
	gate  chan struct{}
}

func (f *fakeReportRepo) PeriodTotals(context.Context, time.Time) (Totals, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		<-f.gate
	}
	return f.totals, nil
}

func (f *fakeReportRepo) NetPayByDepartment(context.Context, time.Time) (map[string]decimal.Decimal, error) {
	if f.byDept == nil {
		return map[string]decimal.Decimal{}, nil
	}
	return f.byDept, nil
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func july(t *testing.T) shared.Period {
	t.Helper()
	p, err := shared.PeriodOf(2025, 7)
	require.NoError(t, err)
	return p
}

func TestSummarizeAppliesEmployerContribution(t *testing.T) {
	repo := &fakeReportRepo{
		totals: Totals{
			PayslipCount:    4,
			GrossEarnings:   mustDec(t, "38000.00"),
			TotalDeductions: mustDec(t, "4349.05"),
			NetPay:          mustDec(t, "33650.95"),
		},
		byDept: map[string]decimal.Decimal{
			"Engineering": mustDec(t, "24650.95"),
			"Finance":     mustDec(t, "9000.00"),
		},
	}
	svc := NewService(repo, decimal.Decimal{})

	summary, err := svc.Summarize(context.Background(), july(t))
	require.NoError(t, err)
	require.Equal(t, "2025-07", summary.Period)
	require.Equal(t, 4, summary.PayslipCount)
	require.Equal(t, "4940.00", summary.EmployerContribution.StringFixed(2))
	require.Equal(t, "42940.00", summary.TotalPayout.StringFixed(2))
	require.Equal(t, "24650.95", summary.NetPayByDepartment["Engineering"].StringFixed(2))
}

func TestSummarizeHonoursConfiguredRate(t *testing.T) {
	repo := &fakeReportRepo{totals: Totals{GrossEarnings: mustDec(t, "10000.00")}}
	svc := NewService(repo, mustDec(t, "0.12"))

	summary, err := svc.Summarize(context.Background(), july(t))
	require.NoError(t, err)
	require.Equal(t, "1200.00", summary.EmployerContribution.StringFixed(2))
	require.Equal(t, "11200.00", summary.TotalPayout.StringFixed(2))
}

func TestSummarizeEmptyPeriod(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, decimal.Decimal{})

	summary, err := svc.Summarize(context.Background(), july(t))
	require.NoError(t, err)
	require.Zero(t, summary.PayslipCount)
	require.Equal(t, "0.00", summary.TotalGross.StringFixed(2))
	require.Equal(t, "0.00", summary.TotalPayout.StringFixed(2))
	require.Empty(t, summary.NetPayByDepartment)
}

func TestSummarizeCollapsesConcurrentCalls(t *testing.T) {
	repo := &fakeReportRepo{
		totals: Totals{GrossEarnings: mustDec(t, "1000.00")},
		gate:   make(chan struct{}),
	}
	svc := NewService(repo, decimal.Decimal{})
	period := july(t)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]Summary, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := svc.Summarize(context.Background(), period)
			require.NoError(t, err)
			results[i] = summary
		}(i)
	}

	// Wait for the first aggregation to start, then let it finish. Everyone
	// else must piggyback on that single in-flight call.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&repo.calls) == 1
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&repo.calls))
	for _, summary := range results {
		require.Equal(t, "130.00", summary.EmployerContribution.StringFixed(2))
	}
}
