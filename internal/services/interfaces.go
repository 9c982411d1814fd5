package services

import (
	"argentbank/internal/models"
)

// UserServicer defines the contract for account-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, transactions []models.Transaction) (*models.User, error)
	LoginUser(email, password string) (string, error)
	GetUserProfile(userID string) (*models.Profile, error)
	UpdateUserProfile(userID, firstName, lastName string) (*models.Profile, error)
}

// TransactionServicer defines the contract for ledger-related business logic.
// Every lookup is scoped to the authenticated user.
type TransactionServicer interface {
	ListTransactions(userID string) ([]models.TransactionSummary, error)
	GetTransactionDetails(userID, transactionID string) (*models.Details, error)
	UpdateTransactionDetails(userID, transactionID string, details models.Details) (*models.Transaction, error)
	DeleteTransactionDetails(userID, transactionID string) (*models.Transaction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
