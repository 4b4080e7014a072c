package expense

import (
	"context"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type StubExpenseRepo struct {
	nextId int64
	data   map[int64]Expense

	InsertErr error
	SumErr    error
}

func NewStubExpenseRepo() *StubExpenseRepo {
	return &StubExpenseRepo{data: map[int64]Expense{}}
}

func (s *StubExpenseRepo) Insert(ctx context.Context, expense Expense) (int64, error) {
	if s.InsertErr != nil {
		return 0, s.InsertErr
	}
	s.nextId++
	expense.ID = s.nextId
	s.data[expense.ID] = expense
	return expense.ID, nil
}

func (s *StubExpenseRepo) Update(ctx context.Context, expense Expense) error {
	if _, ok := s.data[expense.ID]; !ok {
		return ErrExpenseNotFound
	}
	s.data[expense.ID] = expense
	return nil
}

func (s *StubExpenseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.data[id]; !ok {
		return ErrExpenseNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubExpenseRepo) GetByID(ctx context.Context, id int64) (*Expense, error) {
	expense, ok := s.data[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	return &expense, nil
}

func (s *StubExpenseRepo) GetAll(ctx context.Context) ([]Expense, error) {
	expenses := make([]Expense, 0, len(s.data))
	for _, expense := range s.data {
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (s *StubExpenseRepo) SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	if s.SumErr != nil {
		return decimal.Zero, s.SumErr
	}
	sum := decimal.Zero
	for _, expense := range s.data {
		if utils.SameDay(expense.Date, date) {
			sum = sum.Add(expense.Amount)
		}
	}
	return sum, nil
}

func (s *StubExpenseRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	if s.SumErr != nil {
		return decimal.Zero, s.SumErr
	}
	sum := decimal.Zero
	for _, expense := range s.data {
		d := utils.DateOf(expense.Date)
		if !d.Before(utils.DateOf(from)) && !d.After(utils.DateOf(to)) {
			sum = sum.Add(expense.Amount)
		}
	}
	return sum, nil
}

func (s *StubExpenseRepo) DeleteAll(ctx context.Context) error {
	s.data = map[int64]Expense{}
	return nil
}

func (s *StubExpenseRepo) Cleanup() {
	s.data = map[int64]Expense{}
	s.nextId = 0
	s.InsertErr = nil
	s.SumErr = nil
}
