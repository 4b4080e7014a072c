package overview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type OverviewDTO struct {
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	RemainingBudget   decimal.Decimal `json:"remainingBudget"`
	Savings           decimal.Decimal `json:"savings"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	Date              string          `json:"date"`
	TotalSpentToday   decimal.Decimal `json:"totalSpentToday"`
	TodayAdjustment   decimal.Decimal `json:"todayAdjustment"`
	RemainingForToday decimal.Decimal `json:"remainingForToday"`
	DaysLeft          int             `json:"daysLeft"`
	DailyBudgetRate   decimal.Decimal `json:"dailyBudgetRate"`
	HasUnderflow      bool            `json:"hasUnderflow"`
	UnderflowAmount   decimal.Decimal `json:"underflowAmount"`
	RolloverMessage   string          `json:"rolloverMessage,omitempty"`
}

type UnderflowRequest struct {
	Action string `json:"action"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if overview.Budget == nil {
		rest.WriteError(w, http.StatusNotFound, "No budget configured", "")
		return
	}

	b := overview.Budget
	state := overview.State
	rest.WriteJSON(w, http.StatusOK, OverviewDTO{
		TotalBudget:       b.TotalBudget.Round(2),
		RemainingBudget:   b.RemainingBudget.Round(2),
		Savings:           b.Savings.Round(2),
		StartDate:         b.StartDate.Format(utils.DateLayout),
		EndDate:           b.EndDate.Format(utils.DateLayout),
		Date:              state.Date.Format(utils.DateLayout),
		TotalSpentToday:   state.TotalSpentToday.Round(2),
		TodayAdjustment:   state.TodayAdjustment.Round(2),
		RemainingForToday: state.RemainingForToday.Round(2),
		DaysLeft:          state.DaysLeft,
		DailyBudgetRate:   state.DailyBudgetRate.Round(2),
		HasUnderflow:      state.HasUnderflow,
		UnderflowAmount:   state.UnderflowAmount.Round(2),
		RolloverMessage:   overview.RolloverMessage,
	})
}

func (h *Handler) AcknowledgeUnderflow(w http.ResponseWriter, r *http.Request) {
	var request UnderflowRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	err := h.service.AcknowledgeUnderflow(r.Context(), UnderflowAction(request.Action))
	switch {
	case errors.Is(err, ErrUnknownAction):
		rest.WriteError(w, http.StatusBadRequest, "Unknown action", "Supported actions are save, rollover and ignore")
	case errors.Is(err, ErrNoBudget):
		rest.WriteError(w, http.StatusNotFound, "No budget configured", "")
	case errors.Is(err, ErrNoUnderflow):
		rest.WriteError(w, http.StatusConflict, "No underflow to acknowledge", "")
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
