package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type SetupRequest struct {
	TotalBudget decimal.Decimal `json:"totalBudget" validate:"required"`
	StartDate   string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string          `json:"endDate" validate:"required,datetime=2006-01-02"`
	Savings     decimal.Decimal `json:"savings"`
}

type BudgetDTO struct {
	TotalBudget      decimal.Decimal `json:"totalBudget"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	AllocationPerDay decimal.Decimal `json:"allocationPerDay"`
	RemainingBudget  decimal.Decimal `json:"remainingBudget"`
	Savings          decimal.Decimal `json:"savings"`
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.service.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if budget == nil {
		rest.WriteError(w, http.StatusNotFound, "No budget configured", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(*budget))
}

func (h *Handler) SetupBudget(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", err.Error())
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid startDate format", "Dates must be in yyyy-MM-dd format")
		return
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid endDate format", "Dates must be in yyyy-MM-dd format")
		return
	}

	budget, err := h.service.Setup(r.Context(), Draft{
		TotalBudget: req.TotalBudget,
		StartDate:   startDate,
		EndDate:     endDate,
		Savings:     req.Savings,
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid budget", validationErr.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(budget))
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetAllData(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetAllData(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		TotalBudget:      budget.TotalBudget,
		StartDate:        budget.StartDate.Format(utils.DateLayout),
		EndDate:          budget.EndDate.Format(utils.DateLayout),
		AllocationPerDay: budget.AllocationPerDay.Round(2),
		RemainingBudget:  budget.RemainingBudget.Round(2),
		Savings:          budget.Savings,
	}
}
