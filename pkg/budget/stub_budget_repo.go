package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubBudgetRepo struct {
	budget *Budget

	GetErr    error
	UpsertErr error
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{}
}

func (s *StubBudgetRepo) Get(ctx context.Context) (*Budget, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if s.budget == nil {
		return nil, nil
	}
	copied := *s.budget
	return &copied, nil
}

func (s *StubBudgetRepo) Upsert(ctx context.Context, budget Budget) error {
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	s.budget = &budget
	return nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context) error {
	s.budget = nil
	return nil
}

func (s *StubBudgetRepo) ApplyDelta(ctx context.Context, delta decimal.Decimal) error {
	if s.budget == nil {
		return nil
	}
	s.budget.RemainingBudget = s.budget.RemainingBudget.Add(delta)
	return nil
}

func (s *StubBudgetRepo) MoveToSavings(ctx context.Context, amount decimal.Decimal) error {
	if s.budget == nil {
		return nil
	}
	s.budget.RemainingBudget = s.budget.RemainingBudget.Sub(amount)
	s.budget.Savings = s.budget.Savings.Add(amount)
	return nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.budget = nil
	s.GetErr = nil
	s.UpsertErr = nil
}
