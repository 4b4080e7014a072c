package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Transaction is one parsed mobile-money notification. Parsing the raw SMS
// text happens outside this service; only the extracted fields arrive here.
type Transaction struct {
	Ref         string
	Description string
	Recipient   string
	Amount      decimal.Decimal
	Date        time.Time
}

type FailedTransaction struct {
	Ref   string
	Error string
}

type ImportResult struct {
	BatchID  uuid.UUID
	Imported int
	Failed   []FailedTransaction
}

// Importer turns batches of parsed transactions into expenses. Each record
// goes through the regular coordinator path so period guards and budget
// deltas apply exactly as for manual entry.
type Importer struct {
	service Service
}

func NewImporter(service Service) *Importer {
	return &Importer{service: service}
}

// ImportBatch stores every transaction it can and collects failures instead
// of aborting the whole batch.
func (i *Importer) ImportBatch(ctx context.Context, transactions []Transaction) ImportResult {
	result := ImportResult{BatchID: uuid.New()}
	for _, tx := range transactions {
		expense := Expense{
			Description: tx.Description,
			Amount:      tx.Amount,
			Category:    SuggestCategory(tx.Description, tx.Recipient),
			Date:        tx.Date,
		}
		if _, err := i.service.Add(ctx, expense); err != nil {
			log.Warnf("batch %s: failed to import transaction %s: %v", result.BatchID, tx.Ref, err)
			result.Failed = append(result.Failed, FailedTransaction{Ref: tx.Ref, Error: err.Error()})
			continue
		}
		result.Imported++
	}
	log.Infof("batch %s: imported %d of %d transactions", result.BatchID, result.Imported, len(transactions))
	return result
}
