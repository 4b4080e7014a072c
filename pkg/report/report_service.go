package report

import (
	"context"
	"sort"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/expense"
	"github.com/shopspring/decimal"
)

type ExpenseSource interface {
	GetAll(ctx context.Context) ([]expense.Expense, error)
}

type Service interface {
	Summarize(ctx context.Context, from, to time.Time) (Summary, error)
}

type ServiceImpl struct {
	expenses ExpenseSource
}

func NewService(expenses ExpenseSource) *ServiceImpl {
	return &ServiceImpl{expenses: expenses}
}

func (s *ServiceImpl) Summarize(ctx context.Context, from, to time.Time) (Summary, error) {
	from = utils.DateOf(from)
	to = utils.DateOf(to)
	if to.Before(from) {
		from, to = to, from
	}

	all, err := s.expenses.GetAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{From: from, To: to, TotalSpent: decimal.Zero}
	byDate := map[time.Time]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	for _, e := range all {
		d := utils.DateOf(e.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		byDate[d] = byDate[d].Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		summary.TotalSpent = summary.TotalSpent.Add(e.Amount)
	}

	days := utils.DaysBetween(from, to) + 1
	summary.DailyTotals = make([]DayTotal, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		summary.DailyTotals = append(summary.DailyTotals, DayTotal{Date: d, Total: byDate[d]})
	}
	summary.DailyAverage = summary.TotalSpent.Div(decimal.NewFromInt(int64(days)))
	summary.Categories = categoryBreakdown(byCategory, summary.TotalSpent)
	summary.MaxDay, summary.MinDay = spendingExtremes(summary.DailyTotals)
	summary.TrendSlope = trendSlope(summary.DailyTotals)
	summary.WeeklyAverages = weeklyAverages(summary.DailyTotals)
	return summary, nil
}

func categoryBreakdown(byCategory map[string]decimal.Decimal, totalSpent decimal.Decimal) []CategoryTotal {
	categories := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		percentage := decimal.Zero
		if totalSpent.IsPositive() {
			percentage = total.Div(totalSpent).Mul(decimal.NewFromInt(100))
		}
		categories = append(categories, CategoryTotal{Category: category, Total: total, Percentage: percentage})
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})
	return categories
}

func spendingExtremes(dailyTotals []DayTotal) (maxDay, minDay *DayTotal) {
	for i := range dailyTotals {
		day := dailyTotals[i]
		if !day.Total.IsPositive() {
			continue
		}
		if maxDay == nil || day.Total.GreaterThan(maxDay.Total) {
			copied := day
			maxDay = &copied
		}
		if minDay == nil || day.Total.LessThan(minDay.Total) {
			copied := day
			minDay = &copied
		}
	}
	return maxDay, minDay
}

// trendSlope fits y = a + b*x over the day index by ordinary least squares and
// returns b.
func trendSlope(dailyTotals []DayTotal) float64 {
	n := float64(len(dailyTotals))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, day := range dailyTotals {
		x := float64(i)
		y, _ := day.Total.Float64()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

func weeklyAverages(dailyTotals []DayTotal) []WeekAverage {
	type week struct {
		total decimal.Decimal
		days  int64
	}
	byWeek := map[time.Time]*week{}
	for _, day := range dailyTotals {
		start := mondayOf(day.Date)
		if byWeek[start] == nil {
			byWeek[start] = &week{}
		}
		byWeek[start].total = byWeek[start].total.Add(day.Total)
		byWeek[start].days++
	}

	averages := make([]WeekAverage, 0, len(byWeek))
	for start, w := range byWeek {
		averages = append(averages, WeekAverage{
			WeekStart: start,
			Average:   w.total.Div(decimal.NewFromInt(w.days)),
		})
	}
	sort.Slice(averages, func(i, j int) bool {
		return averages[i].WeekStart.Before(averages[j].WeekStart)
	})
	return averages
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return utils.DateOf(t).AddDate(0, 0, -offset)
}
