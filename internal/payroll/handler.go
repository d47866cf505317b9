package payroll

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wagebook-hr/wagebook/internal/api"
	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Handler exposes payroll runs and payslip queries over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	employees employee.Repository
	validate  *validator.Validate
}

// NewHandler constructs the payroll handler.
func NewHandler(logger *slog.Logger, service *Service, employees employee.Repository) *Handler {
	return &Handler{logger: logger, service: service, employees: employees, validate: validator.New()}
}

// MountRoutes attaches the payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/runs", h.run)
	r.Get("/payslips", h.listSummaries)
	r.Get("/payslips/{payslipID}", h.getPayslip)
	r.Get("/employees/{employeeID}/payslips/latest", h.latestPayslip)
	r.Get("/periods", h.listPeriods)
}

type runRequest struct {
	Year       int   `json:"year" validate:"required"`
	Month      int   `json:"month" validate:"required,min=1,max=12"`
	EmployeeID int64 `json:"employeeId" validate:"min=0"`
}

type runView struct {
	RunID     string `json:"runId"`
	Period    string `json:"period"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Summary   string `json:"summary"`
}

type payItemView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

type payslipView struct {
	ID              int64         `json:"id"`
	EmployeeID      int64         `json:"employeeId"`
	Period          string        `json:"period"`
	PeriodStart     string        `json:"periodStart"`
	PeriodEnd       string        `json:"periodEnd"`
	GrossEarnings   string        `json:"grossEarnings"`
	TotalDeductions string        `json:"totalDeductions"`
	NetPay          string        `json:"netPay"`
	NetPayDisplay   string        `json:"netPayDisplay"`
	Items           []payItemView `json:"items"`
}

type summaryView struct {
	PayslipID    int64  `json:"payslipId"`
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Period       string `json:"period"`
	NetPay       string `json:"netPay"`
}

func toPayslipView(p Payslip) payslipView {
	items := make([]payItemView, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, payItemView{
			Name:    it.Name,
			Kind:    string(it.Kind),
			Amount:  it.Amount.StringFixed(2),
			Display: shared.FormatMYR(it.Amount),
		})
	}
	return payslipView{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		Period:          shared.PeriodFromDate(p.PeriodStart).String(),
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		GrossEarnings:   p.GrossEarnings.StringFixed(2),
		TotalDeductions: p.TotalDeductions.StringFixed(2),
		NetPay:          p.NetPay.StringFixed(2),
		NetPayDisplay:   shared.FormatMYR(p.NetPay),
		Items:           items,
	}
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	period, err := shared.PeriodOf(req.Year, req.Month)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_period", "year/month out of range")
		return
	}

	result, err := h.service.Run(r.Context(), period, req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrRunInProgress):
			api.Fail(w, r, http.StatusConflict, "run_in_progress", "a payroll run for this period is already in progress")
		case errors.Is(err, shared.ErrNotFound):
			api.Fail(w, r, http.StatusNotFound, "employee_not_found", "target employee does not exist")
		case errors.Is(err, ErrEmployeeInactive):
			api.Fail(w, r, http.StatusUnprocessableEntity, "employee_inactive", "target employee is not active")
		default:
			h.logger.Error("payroll run", slog.Any("error", err))
			api.Fail(w, r, http.StatusInternalServerError, "run_failed", "payroll run could not start")
		}
		return
	}

	api.Success(w, r, runView{
		RunID:     result.RunID,
		Period:    result.Period.String(),
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Summary:   result.Summary(),
	})
}

func (h *Handler) getPayslip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "payslipID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_payslip_id", "payslip id must be numeric")
		return
	}
	slip, err := h.service.Payslip(r.Context(), id)
	if err != nil {
		h.writePayslipError(w, r, err)
		return
	}
	api.Success(w, r, toPayslipView(slip))
}

func (h *Handler) latestPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_employee_id", "employee id must be numeric")
		return
	}
	slip, err := h.service.LatestPayslip(r.Context(), employeeID)
	if err != nil {
		h.writePayslipError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		emp, err := h.employees.Get(r.Context(), employeeID)
		if err != nil {
			h.writePayslipError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="payslip.pdf"`)
		if err := RenderPDF(w, emp, slip); err != nil {
			h.logger.Error("render payslip pdf", slog.Any("error", err))
		}
		return
	}
	api.Success(w, r, toPayslipView(slip))
}

func (h *Handler) listSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListSummaries(r.Context())
	if err != nil {
		h.logger.Error("list payslip summaries", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "payslips_unavailable", "could not list payslips")
		return
	}
	views := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, summaryView{
			PayslipID:    s.PayslipID,
			EmployeeID:   s.EmployeeID,
			EmployeeName: s.EmployeeName,
			Period:       shared.PeriodFromDate(s.PeriodStart).String(),
			NetPay:       s.NetPay.StringFixed(2),
		})
	}
	api.Success(w, r, views)
}

func (h *Handler) listPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.ListPeriods(r.Context())
	if err != nil {
		h.logger.Error("list periods", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "periods_unavailable", "could not list periods")
		return
	}
	api.Success(w, r, periods)
}

func (h *Handler) writePayslipError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrPayslipNotFound) || errors.Is(err, shared.ErrNotFound) {
		api.Fail(w, r, http.StatusNotFound, "payslip_not_found", "no payslip matched the request")
		return
	}
	h.logger.Error("payslip lookup", slog.Any("error", err))
	api.Fail(w, r, http.StatusInternalServerError, "payslip_unavailable", "could not load payslip")
}
