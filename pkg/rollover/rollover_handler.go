package rollover

import (
	"encoding/json"
	"net/http"

	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type SettingsDTO struct {
	AutomaticRolloverEnabled bool   `json:"automaticRolloverEnabled"`
	RolloverOption           string `json:"rolloverOption"`
}

type ResultDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Option string          `json:"option"`
}

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.engine.Settings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SettingsDTO{
		AutomaticRolloverEnabled: settings.AutomaticEnabled,
		RolloverOption:           settings.Option.String(),
	})
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	option, err := ParseOption(dto.RolloverOption)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid rollover option",
			"Supported options are NONE, REALLOCATE, SAVE and ADD_TO_TOMORROW")
		return
	}

	settings := Settings{AutomaticEnabled: dto.AutomaticRolloverEnabled, Option: option}
	if err := h.engine.UpdateSettings(r.Context(), settings); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.CheckForDayEnd(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetLastRollover(w http.ResponseWriter, r *http.Request) {
	result := h.engine.LastRollover()
	if result == nil {
		rest.WriteError(w, http.StatusNotFound, "No rollover has been applied yet", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, ResultDTO{
		Amount: result.Amount,
		Date:   result.Date.Format(utils.DateLayout),
		Option: result.Option.String(),
	})
}
