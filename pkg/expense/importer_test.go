package expense

import (
	"errors"
	"testing"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImporter_ImportBatch(t *testing.T) {
	clock := &utils.MockClock{FixedNow: date("2024-01-15")}

	t.Run("should import all transactions with suggested categories", func(t *testing.T) {
		// given
		repo := NewStubExpenseRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		seedBudget(t, budgetRepo, 3000)
		service := NewService(repo, budgetRepo, CalendarMonthGuard{}, clock, event_bus.NewEventBus())
		importer := NewImporter(service)

		// when
		result := importer.ImportBatch(ctx, []Transaction{
			{Ref: "QA1", Description: "Restaurant lunch", Amount: decimal.NewFromInt(250), Date: date("2024-01-14")},
			{Ref: "QA2", Description: "Taxi fare", Amount: decimal.NewFromInt(120), Date: date("2024-01-15")},
		})

		// then
		assert.Equal(t, 2, result.Imported)
		assert.Empty(t, result.Failed)
		expenses, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		categories := map[string]string{}
		for _, e := range expenses {
			categories[e.Description] = e.Category
		}
		assert.Equal(t, "Food", categories["Restaurant lunch"])
		assert.Equal(t, "Transport", categories["Taxi fare"])
		assert.True(t, remaining(t, budgetRepo).Equal(decimal.NewFromInt(2630)))
	})

	t.Run("should collect failures without aborting the batch", func(t *testing.T) {
		// given
		repo := NewStubExpenseRepo()
		budgetRepo := budget.NewStubBudgetRepo()
		service := NewService(repo, budgetRepo, CalendarMonthGuard{}, clock, event_bus.NewEventBus())
		importer := NewImporter(service)
		repo.InsertErr = errors.New("storage down")

		// when
		result := importer.ImportBatch(ctx, []Transaction{
			{Ref: "QA1", Description: "Restaurant lunch", Amount: decimal.NewFromInt(250), Date: date("2024-01-14")},
		})

		// then
		assert.Zero(t, result.Imported)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "QA1", result.Failed[0].Ref)
	})
}

func TestSuggestCategory(t *testing.T) {
	tests := []struct {
		description string
		recipient   string
		expected    string
	}{
		{"Lunch at restaurant", "", "Food"},
		{"Payment", "Java Cafe", "Food"},
		{"Uber to town", "", "Transport"},
		{"Electricity bill", "", "Utilities"},
		{"Supermarket shopping", "", "Shopping"},
		{"Sent to John", "", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestCategory(tt.description, tt.recipient))
		})
	}
}
