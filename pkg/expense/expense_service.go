package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	log "github.com/sirupsen/logrus"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Service interface {
	List(ctx context.Context) ([]Expense, error)
	Add(ctx context.Context, expense Expense) (Expense, error)
	Edit(ctx context.Context, expense Expense) error
	Remove(ctx context.Context, id int64) error
}

// ServiceImpl keeps the budget's remaining amount consistent as expenses are
// recorded, edited, and deleted. Updates are applied as deltas through the
// budget repo's atomic ApplyDelta rather than recomputed from history.
type ServiceImpl struct {
	repo       Repo
	budgetRepo budget.Repo
	guard      PeriodGuard
	clock      utils.Clock
	bus        *event_bus.EventBus
}

func NewService(repo Repo, budgetRepo budget.Repo, guard PeriodGuard, clock utils.Clock, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, budgetRepo: budgetRepo, guard: guard, clock: clock, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Expense, error) {
	return s.repo.GetAll(ctx)
}

// Add stores the expense and, when its date falls inside the current period
// window, subtracts the amount from the remaining budget. Historical entries
// outside the window are stored without touching the running total.
func (s *ServiceImpl) Add(ctx context.Context, expense Expense) (Expense, error) {
	expense.Date = utils.DateOf(expense.Date)
	id, err := s.repo.Insert(ctx, expense)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to store expense: %w", err)
	}
	expense.ID = id

	if s.affectsBudget(ctx, expense) {
		if err := s.budgetRepo.ApplyDelta(ctx, expense.Amount.Neg()); err != nil {
			return Expense{}, fmt.Errorf("failed to update remaining budget: %w", err)
		}
	}

	s.publish(ctx, event_bus.ExpenseCreated, expense)
	return expense, nil
}

// Edit applies the difference between the new and the stored amount to the
// remaining budget, guarded by the new date's period membership.
func (s *ServiceImpl) Edit(ctx context.Context, expense Expense) error {
	original, err := s.repo.GetByID(ctx, expense.ID)
	if err != nil {
		return err
	}

	expense.Date = utils.DateOf(expense.Date)
	if err := s.repo.Update(ctx, expense); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if s.affectsBudget(ctx, expense) {
		delta := expense.Amount.Sub(original.Amount)
		if err := s.budgetRepo.ApplyDelta(ctx, delta.Neg()); err != nil {
			return fmt.Errorf("failed to update remaining budget: %w", err)
		}
	}

	s.publish(ctx, event_bus.ExpenseUpdated, expense)
	return nil
}

// Remove deletes the expense and credits its amount back to the remaining
// budget unconditionally. Unlike Add and Edit there is no period guard here;
// this asymmetry matches the long-standing recorded behavior and is kept
// deliberately (see DESIGN.md).
func (s *ServiceImpl) Remove(ctx context.Context, id int64) error {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := s.budgetRepo.ApplyDelta(ctx, expense.Amount); err != nil {
		return fmt.Errorf("failed to update remaining budget: %w", err)
	}

	s.publish(ctx, event_bus.ExpenseDeleted, *expense)
	return nil
}

func (s *ServiceImpl) affectsBudget(ctx context.Context, expense Expense) bool {
	b, err := s.budgetRepo.Get(ctx)
	if err != nil {
		log.Warnf("could not read budget, expense will not affect remaining budget: %v", err)
		return false
	}
	if b == nil {
		return false
	}
	return s.guard.InCurrentPeriod(expense.Date, s.clock.Now(), b)
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, expense Expense) {
	err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.ExpenseChanged{
		ID:     expense.ID,
		Amount: expense.Amount,
		Date:   expense.Date,
	}))
	if err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}
