package adjustment

import (
	"context"
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/pkg/budget"
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

func seedBudget(t *testing.T, repo *budget.StubBudgetRepo, remaining int64) {
	t.Helper()
	err := repo.Upsert(ctx, budget.Budget{
		TotalBudget:      decimal.NewFromInt(3000),
		StartDate:        date("2024-01-01"),
		EndDate:          date("2024-01-30"),
		AllocationPerDay: decimal.NewFromInt(100),
		RemainingBudget:  decimal.NewFromInt(remaining),
	})
	require.NoError(t, err)
}

func remaining(t *testing.T, repo *budget.StubBudgetRepo) decimal.Decimal {
	t.Helper()
	b, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.RemainingBudget
}

func TestServiceImpl_Apply(t *testing.T) {
	t.Run("should store the adjustment and draw it from the remaining budget", func(t *testing.T) {
		// given
		repo := NewStubAdjustmentRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, event_bus.NewEventBus())

		// when
		err := service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(50)})

		// then
		require.NoError(t, err)
		stored, err := service.Get(ctx, date("2024-01-15"))
		require.NoError(t, err)
		assert.True(t, stored.Adjustment.Equal(decimal.NewFromInt(50)))
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(2950)), "remaining was %s", remaining(t, budgetRepo))
	})

	t.Run("should apply only the difference when replacing an adjustment", func(t *testing.T) {
		// given
		repo := NewStubAdjustmentRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, event_bus.NewEventBus())
		require.NoError(t, service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(50)}))

		// when
		err := service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(30)})

		// then: 3000 - 50 + 20
		require.NoError(t, err)
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(2970)), "remaining was %s", remaining(t, budgetRepo))
	})

	t.Run("re-submitting the same adjustment should not move the remaining budget", func(t *testing.T) {
		// given
		repo := NewStubAdjustmentRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, event_bus.NewEventBus())
		require.NoError(t, service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(50)}))

		// when
		err := service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(50)})

		// then
		require.NoError(t, err)
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(2950)))
	})

	t.Run("negative adjustments should return money to the remaining budget", func(t *testing.T) {
		// given
		repo := NewStubAdjustmentRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, event_bus.NewEventBus())

		// when
		err := service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(-40)})

		// then
		require.NoError(t, err)
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(3040)))
	})
}

func TestServiceImpl_Remove(t *testing.T) {
	t.Run("should delete the adjustment and return its value to the remaining budget", func(t *testing.T) {
		// given
		repo := NewStubAdjustmentRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, event_bus.NewEventBus())
		require.NoError(t, service.Apply(ctx, DailyAdjustment{Date: date("2024-01-15"), Adjustment: decimal.NewFromInt(50)}))

		// when
		err := service.Remove(ctx, date("2024-01-15"))

		// then
		require.NoError(t, err)
		stored, err := service.Get(ctx, date("2024-01-15"))
		require.NoError(t, err)
		assert.True(t, stored.Adjustment.IsZero())
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(3000)))
	})
}
