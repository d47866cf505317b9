package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wagebook-hr/wagebook/internal/bonus"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/payroll"
	"github.com/wagebook-hr/wagebook/internal/report"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	EmployeeHandler *employee.Handler
	RulesHandler    *rules.Handler
	BonusHandler    *bonus.Handler
	PayrollHandler  *payroll.Handler
	ReportHandler   *report.Handler
	JobHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with Wagebook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.EmployeeHandler.MountRoutes(r)
		r.Route("/payroll", params.PayrollHandler.MountRoutes)
		r.Route("/rules", params.RulesHandler.MountRoutes)
		r.Route("/bonuses", params.BonusHandler.MountRoutes)
		r.Route("/reports", params.ReportHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
