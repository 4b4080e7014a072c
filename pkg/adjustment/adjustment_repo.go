package adjustment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetAll(ctx context.Context) ([]DailyAdjustment, error)
	// GetForDate returns the adjustment stored for the date, zero when there
	// is none.
	GetForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	// Upsert replaces the adjustment for the date.
	Upsert(ctx context.Context, adjustment DailyAdjustment) error
	// AddToDates adds delta to the stored adjustment of every given date,
	// creating rows where none exist. All dates are written in one
	// transaction.
	AddToDates(ctx context.Context, dates []time.Time, delta decimal.Decimal) error
	Delete(ctx context.Context, date time.Time) error
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DeleteAll(ctx context.Context) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]DailyAdjustment, error) {
	query := "SELECT adjustment_date, adjustment FROM daily_adjustment ORDER BY adjustment_date"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query adjustments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var adjustments []DailyAdjustment
	for rows.Next() {
		var adjustment DailyAdjustment
		var adjustmentDate time.Time
		if err := rows.Scan(&adjustmentDate, &adjustment.Adjustment); err != nil {
			err := fmt.Errorf("could not scan adjustment: %w", err)
			log.Error(err)
			return nil, err
		}
		adjustment.Date = utils.DateOf(adjustmentDate)
		adjustments = append(adjustments, adjustment)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return adjustments, nil
}

func (r *RepoImpl) GetForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	query := "SELECT adjustment FROM daily_adjustment WHERE adjustment_date = $1"
	row := r.db.QueryRowContext(ctx, query, date.Format(utils.DateLayout))
	var value decimal.Decimal
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		err := fmt.Errorf("could not read adjustment: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return value, nil
}

func (r *RepoImpl) Upsert(ctx context.Context, adjustment DailyAdjustment) error {
	query := `INSERT INTO daily_adjustment (adjustment_date, adjustment) VALUES ($1, $2)
				ON CONFLICT (adjustment_date) DO UPDATE SET adjustment = EXCLUDED.adjustment`
	_, err := r.db.ExecContext(ctx, query, adjustment.Date.Format(utils.DateLayout), adjustment.Adjustment)
	if err != nil {
		err := fmt.Errorf("could not upsert adjustment: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) AddToDates(ctx context.Context, dates []time.Time, delta decimal.Decimal) error {
	if len(dates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO daily_adjustment (adjustment_date, adjustment) VALUES ($1, $2)
				ON CONFLICT (adjustment_date) DO UPDATE SET adjustment = daily_adjustment.adjustment + EXCLUDED.adjustment`
	for _, date := range dates {
		if _, err := tx.ExecContext(ctx, query, date.Format(utils.DateLayout), delta); err != nil {
			err := fmt.Errorf("could not add adjustment for %s: %w", date.Format(utils.DateLayout), err)
			log.Error(err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit adjustments: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Delete(ctx context.Context, date time.Time) error {
	query := "DELETE FROM daily_adjustment WHERE adjustment_date = $1"
	if _, err := r.db.ExecContext(ctx, query, date.Format(utils.DateLayout)); err != nil {
		err := fmt.Errorf("could not delete adjustment: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(adjustment), 0) FROM daily_adjustment WHERE adjustment_date BETWEEN $1 AND $2"
	row := r.db.QueryRowContext(ctx, query, from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	var sum decimal.Decimal
	if err := row.Scan(&sum); err != nil {
		err := fmt.Errorf("could not sum adjustments: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *RepoImpl) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM daily_adjustment"); err != nil {
		err := fmt.Errorf("could not delete adjustments: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
