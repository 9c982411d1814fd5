package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"argentbank/internal/models"
	"argentbank/internal/services"
)

// TransactionHandler handles ledger reads and detail edits
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// DetailsUpdate holds the replacement details.
type DetailsUpdate struct {
	NewType     string `json:"newType" binding:"max=100"`
	NewCategory string `json:"newCategory" binding:"max=100"`
	NewNotes    string `json:"newNotes" binding:"max=1000"`
}

// UpdateDetailsRequest represents the details update payload
type UpdateDetailsRequest struct {
	Data *DetailsUpdate `json:"data" binding:"required"`
}

// TransactionListResponse lists a user's transactions without details
type TransactionListResponse struct {
	Transactions []models.TransactionSummary `json:"transactions"`
}

// DetailsResponse carries one transaction's details
type DetailsResponse struct {
	Details *models.Details `json:"details"`
}

// TransactionResponse carries one full transaction
type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// ListTransactions returns all of the user's transactions
// @Summary     List transactions
// @Description List the authenticated user's transactions in ledger order, without details.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} TransactionListResponse "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/transaction [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListTransactions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Transactions: transactions})
}

// GetTransactionDetails returns the details of one transaction
// @Summary     Get transaction details
// @Description POST is accepted as an alias.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID (TS0000-0000)"
// @Success     200 {object} DetailsResponse "Details"
// @Failure     400 {object} ErrorResponse "Malformed transaction id"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/transaction/{id} [get]
func (h *TransactionHandler) GetTransactionDetails(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	details, err := h.transactionService.GetTransactionDetails(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetailsResponse{Details: details})
}

// UpdateTransactionDetails replaces the details of one transaction
// @Summary     Update transaction details
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Transaction ID (TS0000-0000)"
// @Param       request body UpdateDetailsRequest true "New details"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/transaction/{id} [put]
func (h *TransactionHandler) UpdateTransactionDetails(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDetailsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	details := models.Details{
		Type:     req.Data.NewType,
		Category: req.Data.NewCategory,
		Notes:    req.Data.NewNotes,
	}
	transaction, err := h.transactionService.UpdateTransactionDetails(userID, transactionID, details)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdateTransactionDetails, "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"type": details.Type, "category": details.Category, "notes": details.Notes})

	c.JSON(http.StatusOK, TransactionResponse{Transaction: transaction})
}

// DeleteTransactionDetails resets the details of one transaction
// @Summary     Delete transaction details
// @Description The transaction stays in the ledger; its details become "-".
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID (TS0000-0000)"
// @Success     200 {object} TransactionResponse "Transaction with cleared details"
// @Failure     400 {object} ErrorResponse "Malformed transaction id"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/transaction/{id} [delete]
func (h *TransactionHandler) DeleteTransactionDetails(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.DeleteTransactionDetails(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionDeleteTransactionDetails, "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, TransactionResponse{Transaction: transaction})
}
