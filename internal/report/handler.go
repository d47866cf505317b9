package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wagebook-hr/wagebook/internal/api"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Handler exposes the summary report endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
}

type summaryResponse struct {
	Period               string            `json:"period"`
	PayslipCount         int               `json:"payslipCount"`
	TotalGross           string            `json:"totalGross"`
	TotalDeductions      string            `json:"totalDeductions"`
	TotalNet             string            `json:"totalNet"`
	EmployerContribution string            `json:"employerContribution"`
	TotalPayout          string            `json:"totalPayout"`
	TotalPayoutDisplay   string            `json:"totalPayoutDisplay"`
	NetPayByDepartment   map[string]string `json:"netPayByDepartment"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_year", "year must be numeric")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_month", "month must be numeric")
		return
	}
	period, err := shared.PeriodOf(year, month)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_period", "year/month out of range")
		return
	}

	summary, err := h.service.Summarize(r.Context(), period)
	if err != nil {
		h.logger.Error("summarize period", slog.String("period", period.String()), slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "summary_failed", "could not build the period summary")
		return
	}

	byDept := make(map[string]string, len(summary.NetPayByDepartment))
	for name, net := range summary.NetPayByDepartment {
		byDept[name] = net.StringFixed(2)
	}
	api.Success(w, r, summaryResponse{
		Period:               summary.Period,
		PayslipCount:         summary.PayslipCount,
		TotalGross:           summary.TotalGross.StringFixed(2),
		TotalDeductions:      summary.TotalDeductions.StringFixed(2),
		TotalNet:             summary.TotalNet.StringFixed(2),
		EmployerContribution: summary.EmployerContribution.StringFixed(2),
		TotalPayout:          summary.TotalPayout.StringFixed(2),
		TotalPayoutDisplay:   shared.FormatMYR(summary.TotalPayout),
		NetPayByDepartment:   byDept,
	})
}
