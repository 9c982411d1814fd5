package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// DeletedDetailValue marks a details field as removed.
const DeletedDetailValue = "-"

// ledgerAmountLimit is the exclusive bound of a numeric(14,2) column.
var ledgerAmountLimit = decimal.New(1, 12)

// IsValidLedgerAmount reports whether d is stored exactly by a numeric(14,2) column.
func IsValidLedgerAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(2)) && d.Abs().LessThan(ledgerAmountLimit)
}

var transactionIDPattern = regexp.MustCompile(`^TS\d{4}-\d{4}$`)

// IsValidTransactionID reports whether id has the TS0000-0000 shape.
func IsValidTransactionID(id string) bool {
	return transactionIDPattern.MatchString(id)
}

// Details holds the user-editable annotations of a transaction.
type Details struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// DeletedDetails returns the placeholder stored when details are deleted.
func DeletedDetails() Details {
	return Details{Type: DeletedDetailValue, Category: DeletedDetailValue, Notes: DeletedDetailValue}
}

// Transaction is a ledger entry embedded in a user's account. Its ID is only
// unique within the owning user, so the primary key is (user_id, id).
type Transaction struct {
	UserID      string          `gorm:"type:uuid;primaryKey" json:"-"`
	ID          string          `gorm:"size:16;primaryKey" json:"id"`
	Position    int             `gorm:"not null;default:0" json:"-"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"amount"`
	Balance     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"balance"`
	Details     Details         `gorm:"embedded;embeddedPrefix:details_" json:"details"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// TransactionSummary is a transaction without its details, used for listings.
type TransactionSummary struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// Summary drops the details sub-record.
func (t *Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Balance:     t.Balance,
	}
}
