package adjustment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type AdjustmentDTO struct {
	Date       string          `json:"date"`
	Adjustment decimal.Decimal `json:"adjustment"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]AdjustmentDTO, 0, len(adjustments))
	for _, a := range adjustments {
		dtos = append(dtos, toDTO(a))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetAdjustment(w http.ResponseWriter, r *http.Request) {
	date, ok := adjustmentDate(w, r)
	if !ok {
		return
	}
	adjustment, err := h.service.Get(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(adjustment))
}

func (h *Handler) PutAdjustment(w http.ResponseWriter, r *http.Request) {
	date, ok := adjustmentDate(w, r)
	if !ok {
		return
	}
	var dto AdjustmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	adjustment := DailyAdjustment{Date: date, Adjustment: dto.Adjustment}
	if err := h.service.Apply(r.Context(), adjustment); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(adjustment))
}

func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	date, ok := adjustmentDate(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), date); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func adjustmentDate(w http.ResponseWriter, r *http.Request) (date time.Time, ok bool) {
	vars := mux.Vars(r)
	date, err := utils.ParseDate(vars["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Parameter date must be in yyyy-MM-dd format")
		return date, false
	}
	return date, true
}

func toDTO(adjustment DailyAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		Date:       adjustment.Date.Format(utils.DateLayout),
		Adjustment: adjustment.Adjustment,
	}
}
