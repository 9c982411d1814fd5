package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "argentbank/internal/errors"
	"argentbank/internal/models"
)

// transactionService handles reads and detail edits of a user's ledger.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ListTransactions returns the user's transactions in ledger order, without details.
func (s *transactionService) ListTransactions(userID string) ([]models.TransactionSummary, error) {
	if _, err := findUser(s.db, userID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("position ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]models.TransactionSummary, len(transactions))
	for i := range transactions {
		summaries[i] = transactions[i].Summary()
	}
	return summaries, nil
}

// GetTransactionDetails returns the details of one of the user's transactions.
func (s *transactionService) GetTransactionDetails(userID, transactionID string) (*models.Details, error) {
	if err := validateTransactionID(transactionID); err != nil {
		return nil, err
	}

	transaction, err := s.findTransaction(s.db, userID, transactionID)
	if err != nil {
		return nil, err
	}
	return &transaction.Details, nil
}

// UpdateTransactionDetails replaces the details of one transaction wholesale.
func (s *transactionService) UpdateTransactionDetails(userID, transactionID string, details models.Details) (*models.Transaction, error) {
	return s.setDetails(userID, transactionID, details)
}

// DeleteTransactionDetails resets the details of one transaction to the
// placeholder. The transaction itself stays in the ledger.
func (s *transactionService) DeleteTransactionDetails(userID, transactionID string) (*models.Transaction, error) {
	return s.setDetails(userID, transactionID, models.DeletedDetails())
}

// setDetails writes details with a single UPDATE matched on (user_id, id), so
// no other transaction or ledger field is touched.
func (s *transactionService) setDetails(userID, transactionID string, details models.Details) (*models.Transaction, error) {
	if err := validateTransactionID(transactionID); err != nil {
		return nil, err
	}

	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND id = ?", userID, transactionID).
			Updates(map[string]interface{}{
				"details_type":     details.Type,
				"details_category": details.Category,
				"details_notes":    details.Notes,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}

		var err error
		transaction, err = s.findTransaction(tx, userID, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) findTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := db.Where("user_id = ? AND id = ?", userID, transactionID).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func validateTransactionID(transactionID string) error {
	if !models.IsValidTransactionID(transactionID) {
		return apperrors.WithMessage(apperrors.ErrValidation, "transaction id must match TS0000-0000")
	}
	return nil
}
