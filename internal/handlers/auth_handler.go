package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "argentbank/internal/errors"
	"argentbank/internal/models"
	"argentbank/internal/services"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// SignupTransaction is a ledger entry supplied at signup.
type SignupTransaction struct {
	ID          string          `json:"id" binding:"required,transaction_id" example:"TS0001-0001"`
	Date        time.Time       `json:"date" example:"2020-06-20T00:00:00Z"`
	Description string          `json:"description" binding:"max=255" example:"Golden Sun Bakery"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"5.00"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"string" example:"2082.79"`
	Details     models.Details  `json:"details"`
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email        string              `json:"email" binding:"required,email,max=255"`
	Password     string              `json:"password" binding:"required,bcryptmax"`
	FirstName    string              `json:"firstName" binding:"max=100"`
	LastName     string              `json:"lastName" binding:"max=100"`
	Transactions []SignupTransaction `json:"transactions" binding:"omitempty,dive"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse wraps a profile
type UserResponse struct {
	User *models.Profile `json:"user"`
}

// TokenResponse carries a freshly issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// Signup handles user registration
// @Summary     Sign up
// @Description Create a user account, optionally seeded with transactions
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "Signup data"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	transactions := make([]models.Transaction, len(req.Transactions))
	for i, t := range req.Transactions {
		transactions[i] = models.Transaction{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Balance:     t.Balance,
			Details:     t.Details,
		}
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.FirstName, req.LastName, transactions)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.ActionSignup, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"transactions": len(transactions)})

	c.JSON(http.StatusCreated, UserResponse{User: user.Profile()})
}

// Login handles user login
// @Summary     Log in
// @Description Exchange email and password for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} TokenResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.userService.LoginUser(req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same to the client.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrInvalidCredentials
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
