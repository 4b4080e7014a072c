package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type stubExpenseStore struct {
	sum       decimal.Decimal
	sumErr    error
	deleted   bool
	deleteErr error
}

func (s *stubExpenseStore) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.sum, s.sumErr
}

func (s *stubExpenseStore) DeleteAll(ctx context.Context) error {
	s.deleted = true
	return s.deleteErr
}

type stubAdjustmentStore struct {
	sum     decimal.Decimal
	sumErr  error
	deleted bool
}

func (s *stubAdjustmentStore) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.sum, s.sumErr
}

func (s *stubAdjustmentStore) DeleteAll(ctx context.Context) error {
	s.deleted = true
	return nil
}

type stubSettingsStore struct {
	cleared bool
}

func (s *stubSettingsStore) Clear(ctx context.Context) error {
	s.cleared = true
	return nil
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestServiceImpl_Setup(t *testing.T) {
	t.Run("should store a valid budget with computed allocation", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		service := NewService(repo, &stubExpenseStore{}, &stubAdjustmentStore{}, &stubSettingsStore{}, event_bus.NewEventBus())

		// when
		budget, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
			Savings:     decimal.Zero,
		})

		// then
		require.NoError(t, err)
		assert.True(t, budget.AllocationPerDay.Equal(decimal.NewFromInt(100)), "allocation was %s", budget.AllocationPerDay)
		assert.True(t, budget.RemainingBudget.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, 30, budget.DaysInPeriod())
	})

	t.Run("allocation times days in period equals spendable budget", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		service := NewService(repo, &stubExpenseStore{}, &stubAdjustmentStore{}, &stubSettingsStore{}, event_bus.NewEventBus())

		// when: 1000 over 7 days does not divide evenly
		budget, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(1200),
			StartDate:   date("2024-03-01"),
			EndDate:     date("2024-03-07"),
			Savings:     decimal.NewFromInt(200),
		})

		// then
		require.NoError(t, err)
		days := decimal.NewFromInt(int64(budget.DaysInPeriod()))
		diff := budget.AllocationPerDay.Mul(days).Sub(budget.SpendableBudget()).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "allocation drifted by %s", diff)
	})

	t.Run("should recompute remaining budget when replacing an existing budget", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		expenses := &stubExpenseStore{sum: decimal.NewFromInt(500)}
		adjustments := &stubAdjustmentStore{sum: decimal.NewFromInt(40)}
		service := NewService(repo, expenses, adjustments, &stubSettingsStore{}, event_bus.NewEventBus())
		_, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
		})
		require.NoError(t, err)

		// when
		budget, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
		})

		// then
		require.NoError(t, err)
		assert.True(t, budget.RemainingBudget.Equal(decimal.NewFromInt(2460)), "remaining was %s", budget.RemainingBudget)
	})

	t.Run("should fall back to full spendable amount when history cannot be read", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		expenses := &stubExpenseStore{sumErr: errors.New("storage down")}
		service := NewService(repo, expenses, &stubAdjustmentStore{}, &stubSettingsStore{}, event_bus.NewEventBus())
		_, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
		})
		require.NoError(t, err)

		// when
		budget, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
		})

		// then
		require.NoError(t, err)
		assert.True(t, budget.RemainingBudget.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("should reject invalid drafts before any write", func(t *testing.T) {
		repo := NewStubBudgetRepo()
		service := NewService(repo, &stubExpenseStore{}, &stubAdjustmentStore{}, &stubSettingsStore{}, event_bus.NewEventBus())

		drafts := []struct {
			name  string
			draft Draft
			field string
		}{
			{
				name:  "zero total budget",
				draft: Draft{TotalBudget: decimal.Zero, StartDate: date("2024-01-01"), EndDate: date("2024-01-30")},
				field: "totalBudget",
			},
			{
				name:  "negative total budget",
				draft: Draft{TotalBudget: decimal.NewFromInt(-10), StartDate: date("2024-01-01"), EndDate: date("2024-01-30")},
				field: "totalBudget",
			},
			{
				name:  "savings exceeding total",
				draft: Draft{TotalBudget: decimal.NewFromInt(100), Savings: decimal.NewFromInt(200), StartDate: date("2024-01-01"), EndDate: date("2024-01-30")},
				field: "savings",
			},
			{
				name:  "negative savings",
				draft: Draft{TotalBudget: decimal.NewFromInt(100), Savings: decimal.NewFromInt(-1), StartDate: date("2024-01-01"), EndDate: date("2024-01-30")},
				field: "savings",
			},
			{
				name:  "missing dates",
				draft: Draft{TotalBudget: decimal.NewFromInt(100)},
				field: "startDate",
			},
			{
				name:  "end before start",
				draft: Draft{TotalBudget: decimal.NewFromInt(100), StartDate: date("2024-01-30"), EndDate: date("2024-01-01")},
				field: "endDate",
			},
		}
		for _, tt := range drafts {
			t.Run(tt.name, func(t *testing.T) {
				// when
				_, err := service.Setup(ctx, tt.draft)

				// then
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.field, validationErr.Field)

				current, err := service.Current(ctx)
				require.NoError(t, err)
				assert.Nil(t, current, "budget must not be written on validation failure")
			})
		}
	})
}

func TestServiceImpl_ResetAllData(t *testing.T) {
	t.Run("should wipe budget, expenses, adjustments and settings", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		expenses := &stubExpenseStore{}
		adjustments := &stubAdjustmentStore{}
		settings := &stubSettingsStore{}
		service := NewService(repo, expenses, adjustments, settings, event_bus.NewEventBus())
		_, err := service.Setup(ctx, Draft{
			TotalBudget: decimal.NewFromInt(3000),
			StartDate:   date("2024-01-01"),
			EndDate:     date("2024-01-30"),
		})
		require.NoError(t, err)

		// when
		err = service.ResetAllData(ctx)

		// then
		require.NoError(t, err)
		assert.True(t, expenses.deleted)
		assert.True(t, adjustments.deleted)
		assert.True(t, settings.cleared)
		current, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("should stop on the first failing wipe", func(t *testing.T) {
		// given
		repo := NewStubBudgetRepo()
		expenses := &stubExpenseStore{deleteErr: errors.New("storage down")}
		service := NewService(repo, expenses, &stubAdjustmentStore{}, &stubSettingsStore{}, event_bus.NewEventBus())

		// when
		err := service.ResetAllData(ctx)

		// then
		assert.Error(t, err)
	})
}
