package employee

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wagebook-hr/wagebook/internal/api"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Handler exposes read-only employee and reference data endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the employee handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes attaches the employee and reference data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/employees", h.listActive)
	r.Get("/employees/{employeeID}", h.get)
	r.Get("/departments", h.listDepartments)
	r.Get("/job-titles", h.listJobTitles)
	r.Get("/employment-types", h.listEmploymentTypes)
}

type employeeView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	JobTitleID       int64  `json:"jobTitleId"`
	JobTitle         string `json:"jobTitle,omitempty"`
	EmploymentTypeID int64  `json:"employmentTypeId"`
	Department       string `json:"department,omitempty"`
	Active           bool   `json:"active"`
}

func toEmployeeView(e Employee) employeeView {
	return employeeView{
		ID:               e.ID,
		Name:             e.FullName(),
		JobTitleID:       e.JobTitleID,
		JobTitle:         e.JobTitle,
		EmploymentTypeID: e.EmploymentTypeID,
		Department:       e.DepartmentName,
		Active:           e.Active,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_employee_id", "employee id must be numeric")
		return
	}
	emp, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			api.Fail(w, r, http.StatusNotFound, "employee_not_found", "employee does not exist")
			return
		}
		h.logger.Error("get employee", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "employee_unavailable", "could not load employee")
		return
	}
	api.Success(w, r, toEmployeeView(emp))
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.ListActive(r.Context())
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "employees_unavailable", "could not list employees")
		return
	}
	views := make([]employeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, toEmployeeView(e))
	}
	api.Success(w, r, views)
}

func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repo.ListDepartments(r.Context())
	if err != nil {
		h.logger.Error("list departments", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "departments_unavailable", "could not list departments")
		return
	}
	api.Success(w, r, departments)
}

func (h *Handler) listJobTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.repo.ListJobTitles(r.Context())
	if err != nil {
		h.logger.Error("list job titles", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "job_titles_unavailable", "could not list job titles")
		return
	}
	api.Success(w, r, titles)
}

func (h *Handler) listEmploymentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.ListEmploymentTypes(r.Context())
	if err != nil {
		h.logger.Error("list employment types", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "employment_types_unavailable", "could not list employment types")
		return
	}
	api.Success(w, r, types)
}
