package adjustment

import (
	"context"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type StubAdjustmentRepo struct {
	data map[string]decimal.Decimal

	GetErr    error
	UpsertErr error
	AddErr    error
}

func NewStubAdjustmentRepo() *StubAdjustmentRepo {
	return &StubAdjustmentRepo{data: map[string]decimal.Decimal{}}
}

func (s *StubAdjustmentRepo) GetAll(ctx context.Context) ([]DailyAdjustment, error) {
	adjustments := make([]DailyAdjustment, 0, len(s.data))
	for key, value := range s.data {
		date, err := utils.ParseDate(key)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, DailyAdjustment{Date: date, Adjustment: value})
	}
	return adjustments, nil
}

func (s *StubAdjustmentRepo) GetForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	if s.GetErr != nil {
		return decimal.Zero, s.GetErr
	}
	return s.data[date.Format(utils.DateLayout)], nil
}

func (s *StubAdjustmentRepo) Upsert(ctx context.Context, adjustment DailyAdjustment) error {
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	s.data[adjustment.Date.Format(utils.DateLayout)] = adjustment.Adjustment
	return nil
}

func (s *StubAdjustmentRepo) AddToDates(ctx context.Context, dates []time.Time, delta decimal.Decimal) error {
	if s.AddErr != nil {
		return s.AddErr
	}
	for _, date := range dates {
		key := date.Format(utils.DateLayout)
		s.data[key] = s.data[key].Add(delta)
	}
	return nil
}

func (s *StubAdjustmentRepo) Delete(ctx context.Context, date time.Time) error {
	delete(s.data, date.Format(utils.DateLayout))
	return nil
}

func (s *StubAdjustmentRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for key, value := range s.data {
		date, err := utils.ParseDate(key)
		if err != nil {
			return decimal.Zero, err
		}
		if !date.Before(utils.DateOf(from)) && !date.After(utils.DateOf(to)) {
			sum = sum.Add(value)
		}
	}
	return sum, nil
}

func (s *StubAdjustmentRepo) DeleteAll(ctx context.Context) error {
	s.data = map[string]decimal.Decimal{}
	return nil
}

func (s *StubAdjustmentRepo) Cleanup() {
	s.data = map[string]decimal.Decimal{}
	s.GetErr = nil
	s.UpsertErr = nil
	s.AddErr = nil
}
