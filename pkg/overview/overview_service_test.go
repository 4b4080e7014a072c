package overview

import (
	"context"
	"testing"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/adjustment"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/pesatrack/pesatrack/pkg/expense"
	"github.com/pesatrack/pesatrack/pkg/rollover"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type serviceFixture struct {
	service     *ServiceImpl
	budgetRepo  *budget.StubBudgetRepo
	expenses    *expense.StubExpenseRepo
	adjustments *adjustment.StubAdjustmentRepo
	clock       *utils.MockClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		budgetRepo:  budget.NewStubBudgetRepo(),
		expenses:    expense.NewStubExpenseRepo(),
		adjustments: adjustment.NewStubAdjustmentRepo(),
		clock:       &utils.MockClock{FixedNow: date("2024-01-15")},
	}
	require.NoError(t, f.budgetRepo.Upsert(ctx, budget.Budget{
		TotalBudget:      decimal.NewFromInt(3000),
		StartDate:        date("2024-01-01"),
		EndDate:          date("2024-01-30"),
		AllocationPerDay: decimal.NewFromInt(100),
		RemainingBudget:  decimal.NewFromInt(2960),
	}))
	bus := event_bus.NewEventBus()
	engine := rollover.NewEngine(rollover.NewStubSettingsRepo(), f.budgetRepo, f.expenses, f.adjustments, f.clock, bus)
	f.service = NewService(f.budgetRepo, f.expenses, f.adjustments, engine, f.clock)
	return f
}

func (f *serviceFixture) overview(t *testing.T) Overview {
	t.Helper()
	overview, err := f.service.Overview(ctx)
	require.NoError(t, err)
	require.NotNil(t, overview.State)
	return overview
}

func (f *serviceFixture) currentBudget(t *testing.T) budget.Budget {
	t.Helper()
	b, err := f.budgetRepo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, b)
	return *b
}

func TestServiceImpl_AcknowledgeUnderflow(t *testing.T) {
	// The fixtures use 2960 remaining on 2024-01-15, i.e. 16 days until the
	// end, so today's untouched allowance is 185.

	t.Run("save should move the leftover into savings and cancel today's allowance", func(t *testing.T) {
		// given
		f := newServiceFixture(t)
		require.True(t, f.overview(t).State.HasUnderflow)

		// when
		err := f.service.AcknowledgeUnderflow(ctx, ActionSave)

		// then
		require.NoError(t, err)
		b := f.currentBudget(t)
		assert.True(t, b.Savings.Equal(decimal.NewFromInt(185)), "savings were %s", b.Savings)
		assert.True(t, b.RemainingBudget.Equal(decimal.NewFromInt(2775)))
		today, err := f.adjustments.GetForDate(ctx, date("2024-01-15"))
		require.NoError(t, err)
		assert.True(t, today.Equal(decimal.NewFromInt(-185)))
		assert.False(t, f.overview(t).State.HasUnderflow)
	})

	t.Run("rollover should only cancel today's allowance", func(t *testing.T) {
		// given
		f := newServiceFixture(t)

		// when
		err := f.service.AcknowledgeUnderflow(ctx, ActionRollover)

		// then
		require.NoError(t, err)
		b := f.currentBudget(t)
		assert.True(t, b.Savings.IsZero())
		assert.True(t, b.RemainingBudget.Equal(decimal.NewFromInt(2960)))
		today, err := f.adjustments.GetForDate(ctx, date("2024-01-15"))
		require.NoError(t, err)
		assert.True(t, today.Equal(decimal.NewFromInt(-185)))
		assert.False(t, f.overview(t).State.HasUnderflow)
	})

	t.Run("ignore should suppress the flag without writing anything", func(t *testing.T) {
		// given
		f := newServiceFixture(t)

		// when
		err := f.service.AcknowledgeUnderflow(ctx, ActionIgnore)

		// then
		require.NoError(t, err)
		b := f.currentBudget(t)
		assert.True(t, b.RemainingBudget.Equal(decimal.NewFromInt(2960)))
		today, err := f.adjustments.GetForDate(ctx, date("2024-01-15"))
		require.NoError(t, err)
		assert.True(t, today.IsZero())
		overview := f.overview(t)
		assert.False(t, overview.State.HasUnderflow)
		assert.True(t, overview.State.RemainingForToday.Equal(decimal.NewFromInt(185)))
	})

	t.Run("the acknowledgement should expire on the next day", func(t *testing.T) {
		// given
		f := newServiceFixture(t)
		require.NoError(t, f.service.AcknowledgeUnderflow(ctx, ActionIgnore))
		require.False(t, f.overview(t).State.HasUnderflow)

		// when
		f.clock.SetNow(date("2024-01-16"))

		// then
		assert.True(t, f.overview(t).State.HasUnderflow)
	})

	t.Run("should reject an unknown action", func(t *testing.T) {
		f := newServiceFixture(t)

		err := f.service.AcknowledgeUnderflow(ctx, UnderflowAction("stash"))

		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("should refuse when there is nothing left over today", func(t *testing.T) {
		// given: today's allowance fully spent
		f := newServiceFixture(t)
		_, err := f.expenses.Insert(ctx, expense.Expense{
			Description: "Everything",
			Amount:      decimal.NewFromInt(185),
			Category:    "Other",
			Date:        date("2024-01-15"),
		})
		require.NoError(t, err)

		// when
		err = f.service.AcknowledgeUnderflow(ctx, ActionSave)

		// then
		assert.ErrorIs(t, err, ErrNoUnderflow)
	})

	t.Run("should refuse when no budget is configured", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.budgetRepo.Delete(ctx))

		err := f.service.AcknowledgeUnderflow(ctx, ActionSave)

		assert.ErrorIs(t, err, ErrNoBudget)
	})
}

func TestServiceImpl_Overview(t *testing.T) {
	t.Run("should return an empty overview when no budget is configured", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.budgetRepo.Delete(ctx))

		overview, err := f.service.Overview(ctx)

		require.NoError(t, err)
		assert.Nil(t, overview.Budget)
		assert.Nil(t, overview.State)
	})
}
