package bonus

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/wagebook-hr/wagebook/internal/api"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// Handler exposes the bonus workflow endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the bonus handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the bonus routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/{bonusID}/approve", h.approve)
	r.Get("/pending", h.listPending)
}

type createBonusRequest struct {
	EmployeeID  int64  `json:"employeeId" validate:"required"`
	Year        int    `json:"year" validate:"required"`
	Month       int    `json:"month" validate:"required,min=1,max=12"`
	Name        string `json:"name" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	GrantedBy   int64  `json:"grantedBy" validate:"required"`
	AutoApprove bool   `json:"autoApprove"`
}

type approveBonusRequest struct {
	ApproverID int64 `json:"approverId" validate:"required"`
}

type bonusView struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName,omitempty"`
	Period       string `json:"period"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Approved     bool   `json:"approved"`
}

func toBonusView(b Bonus) bonusView {
	return bonusView{
		ID:           b.ID,
		EmployeeID:   b.EmployeeID,
		EmployeeName: b.EmployeeName,
		Period:       shared.PeriodFromDate(b.PeriodStart).String(),
		Name:         b.Name,
		Amount:       b.Amount.StringFixed(2),
		Approved:     b.Approved,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_amount", "amount must be a decimal number")
		return
	}
	period, err := shared.PeriodOf(req.Year, req.Month)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_period", "year/month out of range")
		return
	}
	b := Bonus{
		EmployeeID:  req.EmployeeID,
		PeriodStart: period.Start(),
		Name:        req.Name,
		Amount:      amount,
		Approved:    req.AutoApprove,
	}
	if req.AutoApprove {
		grantedBy := req.GrantedBy
		b.ApprovedBy = &grantedBy
	}
	created, err := h.service.Create(r.Context(), b)
	if err != nil {
		if errors.Is(err, ErrInvalidBonus) {
			api.Fail(w, r, http.StatusUnprocessableEntity, "invalid_bonus", err.Error())
			return
		}
		h.logger.Error("create bonus", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "bonus_create_failed", "could not create bonus")
		return
	}
	api.Created(w, r, toBonusView(created))
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	bonusID, err := strconv.ParseInt(chi.URLParam(r, "bonusID"), 10, 64)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_bonus_id", "bonus id must be numeric")
		return
	}
	var req approveBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.Fail(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if err := h.service.Approve(r.Context(), bonusID, req.ApproverID); err != nil {
		if errors.Is(err, ErrAlreadyApproved) {
			api.Fail(w, r, http.StatusConflict, "already_approved", "bonus is not pending")
			return
		}
		h.logger.Error("approve bonus", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "bonus_approve_failed", "could not approve bonus")
		return
	}
	api.Success(w, r, map[string]any{"id": bonusID, "approvedAt": time.Now().UTC()})
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	var (
		list []Bonus
		err  error
	)
	if dept := r.URL.Query().Get("departmentId"); dept != "" {
		departmentID, parseErr := strconv.ParseInt(dept, 10, 64)
		if parseErr != nil {
			api.Fail(w, r, http.StatusBadRequest, "invalid_department", "department id must be numeric")
			return
		}
		list, err = h.service.ListPendingByDepartment(r.Context(), departmentID)
	} else {
		list, err = h.service.ListPending(r.Context())
	}
	if err != nil {
		h.logger.Error("list pending bonuses", slog.Any("error", err))
		api.Fail(w, r, http.StatusInternalServerError, "bonuses_unavailable", "could not list pending bonuses")
		return
	}
	views := make([]bonusView, 0, len(list))
	for _, b := range list {
		views = append(views, toBonusView(b))
	}
	api.Success(w, r, views)
}
