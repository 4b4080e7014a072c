package expense

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
	Insert(ctx context.Context, expense Expense) (int64, error)
	Update(ctx context.Context, expense Expense) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	GetAll(ctx context.Context) ([]Expense, error)
	// SumOnDate returns the total amount spent on the given date, zero when
	// there are no expenses.
	SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DeleteAll(ctx context.Context) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Insert(ctx context.Context, expense Expense) (int64, error) {
	query := `INSERT INTO expense (description, amount, category, expense_date)
				VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date.Format(utils.DateLayout),
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not insert expense: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepoImpl) Update(ctx context.Context, expense Expense) error {
	query := `UPDATE expense SET description = $1, amount = $2, category = $3, expense_date = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date.Format(utils.DateLayout),
		expense.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not update expense: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected != 1 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *RepoImpl) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expense WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not delete expense: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected != 1 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *RepoImpl) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := "SELECT id, description, amount, category, expense_date FROM expense WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)
	expense, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan expense: %w", err)
		log.Error(err)
		return nil, err
	}
	return &expense, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Expense, error) {
	query := "SELECT id, description, amount, category, expense_date FROM expense ORDER BY expense_date DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func (r *RepoImpl) SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(amount), 0) FROM expense WHERE expense_date = $1"
	row := r.db.QueryRowContext(ctx, query, date.Format(utils.DateLayout))
	var sum decimal.Decimal
	if err := row.Scan(&sum); err != nil {
		err := fmt.Errorf("could not sum expenses: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *RepoImpl) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(amount), 0) FROM expense WHERE expense_date BETWEEN $1 AND $2"
	row := r.db.QueryRowContext(ctx, query, from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	var sum decimal.Decimal
	if err := row.Scan(&sum); err != nil {
		err := fmt.Errorf("could not sum expenses: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *RepoImpl) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM expense"); err != nil {
		err := fmt.Errorf("could not delete expenses: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func scanExpense(scan func(dest ...any) error) (Expense, error) {
	var expense Expense
	var expenseDate time.Time
	if err := scan(
		&expense.ID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expenseDate,
	); err != nil {
		return Expense{}, err
	}
	expense.Date = utils.DateOf(expenseDate)
	return expense, nil
}
