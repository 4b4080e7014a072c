package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ValidationError describes a rejected budget draft. It is raised before any
// write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Draft holds the user-provided values for creating or replacing the budget.
type Draft struct {
	TotalBudget decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Savings     decimal.Decimal
}

// ExpenseStore is the slice of the expense repository the budget service needs.
type ExpenseStore interface {
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DeleteAll(ctx context.Context) error
}

// AdjustmentStore is the slice of the adjustment repository the budget service needs.
type AdjustmentStore interface {
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DeleteAll(ctx context.Context) error
}

// SettingsStore clears persisted rollover settings on a full reset.
type SettingsStore interface {
	Clear(ctx context.Context) error
}

type Service interface {
	Current(ctx context.Context) (*Budget, error)
	Setup(ctx context.Context, draft Draft) (Budget, error)
	Delete(ctx context.Context) error
	ResetAllData(ctx context.Context) error
}

type ServiceImpl struct {
	repo        Repo
	expenses    ExpenseStore
	adjustments AdjustmentStore
	settings    SettingsStore
	bus         *event_bus.EventBus
}

func NewService(repo Repo, expenses ExpenseStore, adjustments AdjustmentStore, settings SettingsStore, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, expenses: expenses, adjustments: adjustments, settings: settings, bus: bus}
}

func (s *ServiceImpl) Current(ctx context.Context) (*Budget, error) {
	return s.repo.Get(ctx)
}

// Setup validates the draft and stores it as the single budget, replacing any
// previous one. When a budget already exists, the remaining budget is
// recomputed from the expenses and adjustments recorded inside the new period
// so that edits do not reset spending history.
func (s *ServiceImpl) Setup(ctx context.Context, draft Draft) (Budget, error) {
	if err := validate(draft); err != nil {
		return Budget{}, err
	}

	days := utils.DaysBetween(draft.StartDate, draft.EndDate) + 1
	spendable := draft.TotalBudget.Sub(draft.Savings)
	allocation := spendable.Div(decimal.NewFromInt(int64(days)))

	remaining := spendable
	existing, err := s.repo.Get(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to read existing budget: %w", err)
	}
	if existing != nil {
		remaining = s.recomputeRemaining(ctx, spendable, draft)
	}

	budget := Budget{
		TotalBudget:      draft.TotalBudget,
		StartDate:        utils.DateOf(draft.StartDate),
		EndDate:          utils.DateOf(draft.EndDate),
		AllocationPerDay: allocation,
		RemainingBudget:  remaining,
		Savings:          draft.Savings,
	}
	if err := s.repo.Upsert(ctx, budget); err != nil {
		return Budget{}, fmt.Errorf("failed to store budget: %w", err)
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetUpdated, event_bus.BudgetChanged{
		RemainingBudget: budget.RemainingBudget,
	})); err != nil {
		log.Warnf("failed to publish budget updated event: %v", err)
	}
	return budget, nil
}

// recomputeRemaining derives the remaining budget from scratch for the new
// period. A storage failure degrades to the full spendable amount instead of
// blocking the setup.
func (s *ServiceImpl) recomputeRemaining(ctx context.Context, spendable decimal.Decimal, draft Draft) decimal.Decimal {
	spent, err := s.expenses.SumBetween(ctx, draft.StartDate, draft.EndDate)
	if err != nil {
		log.Warnf("could not sum expenses for new budget period, keeping full spendable amount: %v", err)
		return spendable
	}
	adjusted, err := s.adjustments.SumBetween(ctx, draft.StartDate, draft.EndDate)
	if err != nil {
		log.Warnf("could not sum adjustments for new budget period, keeping full spendable amount: %v", err)
		return spendable
	}
	return spendable.Sub(spent).Sub(adjusted)
}

func (s *ServiceImpl) Delete(ctx context.Context) error {
	return s.repo.Delete(ctx)
}

// ResetAllData wipes expenses, adjustments, the budget, and persisted rollover
// settings. There is no confirmation or undo at this layer.
func (s *ServiceImpl) ResetAllData(ctx context.Context) error {
	if err := s.expenses.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	if err := s.adjustments.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete adjustments: %w", err)
	}
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if err := s.settings.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear rollover settings: %w", err)
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetUpdated, event_bus.BudgetChanged{})); err != nil {
		log.Warnf("failed to publish budget updated event: %v", err)
	}
	return nil
}

func validate(draft Draft) error {
	if !draft.TotalBudget.IsPositive() {
		return &ValidationError{Field: "totalBudget", Reason: "must be greater than zero"}
	}
	if draft.Savings.IsNegative() {
		return &ValidationError{Field: "savings", Reason: "must not be negative"}
	}
	if draft.Savings.GreaterThan(draft.TotalBudget) {
		return &ValidationError{Field: "savings", Reason: "cannot exceed total budget"}
	}
	if draft.StartDate.IsZero() || draft.EndDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: "dates cannot be empty"}
	}
	if draft.EndDate.Before(draft.StartDate) {
		return &ValidationError{Field: "endDate", Reason: "end date must not be before start date"}
	}
	return nil
}
