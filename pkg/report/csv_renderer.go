package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/pesatrack/pesatrack/internal/utils"
	log "github.com/sirupsen/logrus"
)

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

// RenderSummary produces a CSV export of the summary: a daily-totals section
// followed by a category breakdown and the headline figures.
func (t *CsvReportRendererImpl) RenderSummary(summary Summary) (string, error) {
	data := make([][]string, 0, len(summary.DailyTotals)+len(summary.Categories)+8)

	data = append(data, []string{"Date", "Total"})
	for _, day := range summary.DailyTotals {
		data = append(data, []string{day.Date.Format(utils.DateLayout), day.Total.Round(2).String()})
	}

	data = append(data, []string{})
	data = append(data, []string{"Category", "Total", "Percentage"})
	for _, category := range summary.Categories {
		data = append(data, []string{
			category.Category,
			category.Total.Round(2).String(),
			category.Percentage.Round(1).String(),
		})
	}

	data = append(data, []string{})
	data = append(data, []string{"Total spent", summary.TotalSpent.Round(2).String()})
	data = append(data, []string{"Daily average", summary.DailyAverage.Round(2).String()})
	if summary.MaxDay != nil {
		data = append(data, []string{"Highest spending day", summary.MaxDay.Date.Format(utils.DateLayout), summary.MaxDay.Total.Round(2).String()})
	}
	if summary.MinDay != nil {
		data = append(data, []string{"Lowest spending day", summary.MinDay.Date.Format(utils.DateLayout), summary.MinDay.Total.Round(2).String()})
	}
	data = append(data, []string{"Trend", strconv.FormatFloat(summary.TrendSlope, 'f', 2, 64)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
