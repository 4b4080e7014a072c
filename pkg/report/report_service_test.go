package report

import (
	"context"
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/pkg/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedExpenses(t *testing.T, repo *expense.StubExpenseRepo) {
	t.Helper()
	expenses := []expense.Expense{
		{Description: "Breakfast", Amount: decimal.NewFromInt(30), Category: "Food", Date: date("2024-01-01")},
		{Description: "Bus pass", Amount: decimal.NewFromInt(60), Category: "Transport", Date: date("2024-01-04")},
		{Description: "Dinner out", Amount: decimal.NewFromInt(90), Category: "Food", Date: date("2024-01-07")},
		{Description: "Outside range", Amount: decimal.NewFromInt(500), Category: "Shopping", Date: date("2023-12-31")},
	}
	for _, e := range expenses {
		_, err := repo.Insert(ctx, e)
		require.NoError(t, err)
	}
}

func TestServiceImpl_Summarize(t *testing.T) {
	t.Run("should aggregate totals over the range only", func(t *testing.T) {
		// given: 2024-01-01 is a Monday
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-01"), date("2024-01-07"))

		// then
		require.NoError(t, err)
		assert.True(t, summary.TotalSpent.Equal(decimal.NewFromInt(180)), "total was %s", summary.TotalSpent)
		assert.Equal(t, "25.71", summary.DailyAverage.Round(2).String())
		require.Len(t, summary.DailyTotals, 7)
		assert.True(t, summary.DailyTotals[0].Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, summary.DailyTotals[1].Total.IsZero())
		assert.True(t, summary.DailyTotals[6].Total.Equal(decimal.NewFromInt(90)))
	})

	t.Run("should break spending down by category with percentages", func(t *testing.T) {
		// given
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-01"), date("2024-01-07"))

		// then: largest category first
		require.NoError(t, err)
		require.Len(t, summary.Categories, 2)
		assert.Equal(t, "Food", summary.Categories[0].Category)
		assert.True(t, summary.Categories[0].Total.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, "66.7", summary.Categories[0].Percentage.Round(1).String())
		assert.Equal(t, "Transport", summary.Categories[1].Category)
		assert.Equal(t, "33.3", summary.Categories[1].Percentage.Round(1).String())
	})

	t.Run("should find the highest and lowest spending days", func(t *testing.T) {
		// given
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-01"), date("2024-01-07"))

		// then: zero days are not candidates for the minimum
		require.NoError(t, err)
		require.NotNil(t, summary.MaxDay)
		assert.Equal(t, date("2024-01-07"), summary.MaxDay.Date)
		require.NotNil(t, summary.MinDay)
		assert.Equal(t, date("2024-01-01"), summary.MinDay.Date)
	})

	t.Run("should report an upward trend when spending increases", func(t *testing.T) {
		// given
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-01"), date("2024-01-07"))

		// then
		require.NoError(t, err)
		assert.Greater(t, summary.TrendSlope, 0.0)
	})

	t.Run("should average spending per calendar week", func(t *testing.T) {
		// given: range spanning two ISO weeks
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		_, err := repo.Insert(ctx, expense.Expense{
			Description: "Groceries",
			Amount:      decimal.NewFromInt(70),
			Category:    "Food",
			Date:        date("2024-01-08"),
		})
		require.NoError(t, err)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-01"), date("2024-01-14"))

		// then
		require.NoError(t, err)
		require.Len(t, summary.WeeklyAverages, 2)
		assert.Equal(t, date("2024-01-01"), summary.WeeklyAverages[0].WeekStart)
		assert.Equal(t, "25.71", summary.WeeklyAverages[0].Average.Round(2).String())
		assert.Equal(t, date("2024-01-08"), summary.WeeklyAverages[1].WeekStart)
		assert.Equal(t, "10", summary.WeeklyAverages[1].Average.String())
	})

	t.Run("should handle a range without any spending", func(t *testing.T) {
		// given
		repo := expense.NewStubExpenseRepo()
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-03-01"), date("2024-03-07"))

		// then
		require.NoError(t, err)
		assert.True(t, summary.TotalSpent.IsZero())
		assert.Nil(t, summary.MaxDay)
		assert.Nil(t, summary.MinDay)
		assert.Empty(t, summary.Categories)
		assert.Zero(t, summary.TrendSlope)
	})

	t.Run("should accept a reversed range", func(t *testing.T) {
		// given
		repo := expense.NewStubExpenseRepo()
		seedExpenses(t, repo)
		service := NewService(repo)

		// when
		summary, err := service.Summarize(ctx, date("2024-01-07"), date("2024-01-01"))

		// then
		require.NoError(t, err)
		assert.Equal(t, date("2024-01-01"), summary.From)
		assert.True(t, summary.TotalSpent.Equal(decimal.NewFromInt(180)))
	})
}
