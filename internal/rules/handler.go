package rules

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/wagebook-hr/wagebook/internal/api"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Handler exposes the rule administration endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the rules handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the rule routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/job-titles/{jobTitleID}", h.listByJobTitle)
	r.Post("/", h.create)
	r.Put("/{ruleID}", h.updateValue)
	r.Delete("/{ruleID}", h.delete)
}

type ruleView struct {
	ID               int64   `json:"id"`
	Scope            string  `json:"scope"`
	JobTitleID       *int64  `json:"jobTitleId,omitempty"`
	EmploymentTypeID *int64  `json:"employmentTypeId,omitempty"`
	Description      string  `json:"description"`
	Kind             string  `json:"kind"`
	ValueKind        string  `json:"valueKind"`
	Monetary         bool    `json:"monetary"`
	Value            string  `json:"value"`
	Display          *string `json:"display,omitempty"`
}

func toRuleView(r CompensationRule) ruleView {
	v := ruleView{
		ID:               r.ID,
		Scope:            string(r.Scope()),
		JobTitleID:       r.JobTitleID,
		EmploymentTypeID: r.EmploymentTypeID,
		Description:      r.Description,
		Kind:             string(r.Kind),
		ValueKind:        string(r.ValueKind),
		Monetary:         r.Monetary,
		Value:            r.Value.String(),
	}
	if r.ValueKind == ValueAmount && r.Monetary {
		display := shared.FormatMYR(r.Value)
		v.Display = &display
	}
	return v
}

type createRuleRequest struct {
	JobTitleID       *int64 `json:"jobTitleId"`
	EmploymentTypeID *int64 `json:"employmentTypeId"`
	Description      string `json:"description" validate:"required"`
	Kind             string `json:"kind" validate:"required,oneof=EARNING DEDUCTION"`
	ValueKind        string `json:"valueKind" validate:"required,oneof=AMOUNT RATE"`
	Monetary         *bool  `json:"monetary"`
	Value            string `json:"value" validate:"required"`
}

type updateRuleRequest struct {
	Value string `json:"value" validate:"required"`
}

func (h *Handler) listByJobTitle(w http.ResponseWriter, r *http.Request) {
	jobTitleID, err := strconv.ParseInt(chi.URLParam(r, "jobTitleID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_job_title", "job title id must be numeric")
		return
	}
	list, err := h.service.ListByJobTitle(r.Context(), jobTitleID)
	if err != nil {
		h.logger.Error("list rules", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "rules_unavailable", "could not list rules")
		return
	}
	views := make([]ruleView, 0, len(list))
	for _, rule := range list {
		views = append(views, toRuleView(rule))
	}
	api.Success(w, r, views)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_value", "value must be a decimal number")
		return
	}
	monetary := true
	if req.Monetary != nil {
		monetary = *req.Monetary
	}
	rule, err := h.service.Create(r.Context(), CompensationRule{
		JobTitleID:       req.JobTitleID,
		EmploymentTypeID: req.EmploymentTypeID,
		Description:      req.Description,
		Kind:             Kind(req.Kind),
		ValueKind:        ValueKind(req.ValueKind),
		Monetary:         monetary,
		Value:            value,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRule) {
			api.Fail(w, r, http.StatusUnprocessableEntity, "invalid_rule", err.Error())
			return
		}
		h.logger.Error("create rule", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "rule_create_failed", "could not create rule")
		return
	}
	api.Created(w, r, toRuleView(rule))
}

func (h *Handler) updateValue(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ruleID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_rule_id", "rule id must be numeric")
		return
	}
	var req updateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_value", "value must be a decimal number")
		return
	}
	if err := h.service.UpdateValue(r.Context(), id, value); err != nil {
		h.writeMutationError(w, r, "update", err)
		return
	}
	api.Success(w, r, map[string]int64{"id": id})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ruleID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_rule_id", "rule id must be numeric")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeMutationError(w, r, "delete", err)
		return
	}
	api.Success(w, r, map[string]int64{"id": id})
}

func (h *Handler) writeMutationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		api.Fail(w, r, http.StatusNotFound, "rule_not_found", "rule does not exist")
	case errors.Is(err, ErrRuleReferenced):
		api.Fail(w, r, http.StatusConflict, "rule_frozen", "rule is referenced by a persisted payslip")
	case errors.Is(err, ErrInvalidRule):
		api.Fail(w, r, http.StatusUnprocessableEntity, "invalid_rule", err.Error())
	default:
		h.logger.Error(op+" rule", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "rule_"+op+"_failed", "could not "+op+" rule")
	}
}
