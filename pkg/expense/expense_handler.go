package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pesatrack/pesatrack/internal/rest"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

type ExpenseDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
}

type TransactionDTO struct {
	Ref         string          `json:"ref"`
	Description string          `json:"description" validate:"required"`
	Recipient   string          `json:"recipient"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
}

type ImportResultDTO struct {
	BatchID  uuid.UUID           `json:"batchId"`
	Imported int                 `json:"imported"`
	Failed   []FailedTransaction `json:"failed,omitempty"`
}

type Handler struct {
	service  Service
	importer *Importer
	validate *validator.Validate
}

func NewHandler(service Service, importer *Importer) *Handler {
	return &Handler{
		service:  service,
		importer: importer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, expenseToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	expense, ok := h.decodeExpense(w, r)
	if !ok {
		return
	}
	stored, err := h.service.Add(r.Context(), expense)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, expenseToDTO(stored))
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseId(w, r)
	if !ok {
		return
	}
	expense, ok := h.decodeExpense(w, r)
	if !ok {
		return
	}
	expense.ID = id

	if err := h.service.Edit(r.Context(), expense); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Expense not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, expenseToDTO(expense))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseId(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Expense not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	var dtos []TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	transactions := make([]Transaction, 0, len(dtos))
	for _, dto := range dtos {
		if err := h.validate.Struct(dto); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", err.Error())
			return
		}
		date, err := utils.ParseDate(dto.Date)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Dates must be in yyyy-MM-dd format")
			return
		}
		transactions = append(transactions, Transaction{
			Ref:         dto.Ref,
			Description: dto.Description,
			Recipient:   dto.Recipient,
			Amount:      dto.Amount,
			Date:        date,
		})
	}

	result := h.importer.ImportBatch(r.Context(), transactions)
	rest.WriteJSON(w, http.StatusOK, ImportResultDTO{
		BatchID:  result.BatchID,
		Imported: result.Imported,
		Failed:   result.Failed,
	})
}

func (h *Handler) CategorySuggestion(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	recipient := r.URL.Query().Get("recipient")
	rest.WriteJSON(w, http.StatusOK, map[string]string{
		"category": SuggestCategory(description, recipient),
	})
}

func (h *Handler) decodeExpense(w http.ResponseWriter, r *http.Request) (Expense, bool) {
	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return Expense{}, false
	}
	if err := h.validate.Struct(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid expense", err.Error())
		return Expense{}, false
	}
	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Dates must be in yyyy-MM-dd format")
		return Expense{}, false
	}
	return Expense{
		ID:          dto.ID,
		Description: dto.Description,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Date:        date,
	}, true
}

func expenseId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["expenseId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid expenseId format", "Parameter expenseId must be a number")
		return 0, false
	}
	return id, true
}

func expenseToDTO(expense Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          expense.ID,
		Description: expense.Description,
		Amount:      expense.Amount,
		Category:    expense.Category,
		Date:        expense.Date.Format(utils.DateLayout),
	}
}
