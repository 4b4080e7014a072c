package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type DayTotalDTO struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type CategoryTotalDTO struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

type WeekAverageDTO struct {
	WeekStart string          `json:"weekStart"`
	Average   decimal.Decimal `json:"average"`
}

type SummaryDTO struct {
	From           string             `json:"from"`
	To             string             `json:"to"`
	TotalSpent     decimal.Decimal    `json:"totalSpent"`
	DailyAverage   decimal.Decimal    `json:"dailyAverage"`
	DailyTotals    []DayTotalDTO      `json:"dailyTotals"`
	Categories     []CategoryTotalDTO `json:"categories"`
	MaxDay         *DayTotalDTO       `json:"maxDay,omitempty"`
	MinDay         *DayTotalDTO       `json:"minDay,omitempty"`
	TrendSlope     float64            `json:"trendSlope"`
	WeeklyAverages []WeekAverageDTO   `json:"weeklyAverages"`
}

type Renderer interface {
	RenderSummary(summary Summary) (string, error)
}

type Handler struct {
	service  Service
	renderer Renderer
	clock    utils.Clock
}

func NewHandler(service Service, renderer Renderer, clock utils.Clock) *Handler {
	return &Handler{service: service, renderer: renderer, clock: clock}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summarize(w, r)
	if !ok {
		return
	}
	rest.WriteJSON(w, http.StatusOK, toSummaryDTO(summary))
}

func (h *Handler) GetReportCsv(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summarize(w, r)
	if !ok {
		return
	}
	csvData, err := h.renderer.RenderSummary(summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("report_%s_%s.csv",
		summary.From.Format(utils.DateLayout), summary.To.Format(utils.DateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvData))
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) (Summary, bool) {
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return Summary{}, false
	}
	summary, err := h.service.Summarize(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return Summary{}, false
	}
	return summary, true
}

func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	today := utils.DateOf(h.clock.Now())
	preset := r.URL.Query().Get("preset")
	switch preset {
	case "", "this-month":
		from = utils.FirstOfMonth(today)
		to = from.AddDate(0, 1, -1)
		return from, to, true
	case "last-month":
		from = utils.FirstOfMonth(today).AddDate(0, -1, 0)
		to = utils.FirstOfMonth(today).AddDate(0, 0, -1)
		return from, to, true
	case "custom":
		var err error
		from, err = utils.ParseDate(r.URL.Query().Get("from"))
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from date", "Dates must be in yyyy-MM-dd format")
			return from, to, false
		}
		to, err = utils.ParseDate(r.URL.Query().Get("to"))
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to date", "Dates must be in yyyy-MM-dd format")
			return from, to, false
		}
		return from, to, true
	default:
		rest.WriteError(w, http.StatusBadRequest, "Invalid preset",
			"Supported presets are this-month, last-month and custom")
		return from, to, false
	}
}

func toSummaryDTO(summary Summary) SummaryDTO {
	dto := SummaryDTO{
		From:         summary.From.Format(utils.DateLayout),
		To:           summary.To.Format(utils.DateLayout),
		TotalSpent:   summary.TotalSpent.Round(2),
		DailyAverage: summary.DailyAverage.Round(2),
		TrendSlope:   summary.TrendSlope,
	}
	dto.DailyTotals = make([]DayTotalDTO, 0, len(summary.DailyTotals))
	for _, day := range summary.DailyTotals {
		dto.DailyTotals = append(dto.DailyTotals, toDayTotalDTO(day))
	}
	dto.Categories = make([]CategoryTotalDTO, 0, len(summary.Categories))
	for _, category := range summary.Categories {
		dto.Categories = append(dto.Categories, CategoryTotalDTO{
			Category:   category.Category,
			Total:      category.Total.Round(2),
			Percentage: category.Percentage.Round(1),
		})
	}
	if summary.MaxDay != nil {
		maxDay := toDayTotalDTO(*summary.MaxDay)
		dto.MaxDay = &maxDay
	}
	if summary.MinDay != nil {
		minDay := toDayTotalDTO(*summary.MinDay)
		dto.MinDay = &minDay
	}
	dto.WeeklyAverages = make([]WeekAverageDTO, 0, len(summary.WeeklyAverages))
	for _, week := range summary.WeeklyAverages {
		dto.WeeklyAverages = append(dto.WeeklyAverages, WeekAverageDTO{
			WeekStart: week.WeekStart.Format(utils.DateLayout),
			Average:   week.Average.Round(2),
		})
	}
	return dto
}

func toDayTotalDTO(day DayTotal) DayTotalDTO {
	return DayTotalDTO{
		Date:  day.Date.Format(utils.DateLayout),
		Total: day.Total.Round(2),
	}
}
