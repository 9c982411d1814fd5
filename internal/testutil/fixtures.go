package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"argentbank/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// NewTestTransaction builds an unsaved transaction with the given id.
func NewTestTransaction(id string) models.Transaction {
	n := nextID()
	return models.Transaction{
		ID:          id,
		Date:        time.Date(2020, 6, 20, 0, 0, 0, 0, time.UTC),
		Description: fmt.Sprintf("Test Merchant %d", n),
		Amount:      decimal.NewFromInt(n),
		Balance:     decimal.NewFromInt(1000 + n),
		Details:     models.Details{Type: "Electronic", Category: "Food", Notes: ""},
	}
}

// CreateTestTransactions stores transactions with the given ids for userID, in order.
func CreateTestTransactions(t *testing.T, db *gorm.DB, userID string, ids ...string) []models.Transaction {
	t.Helper()

	rows := make([]models.Transaction, len(ids))
	for i, id := range ids {
		rows[i] = NewTestTransaction(id)
		rows[i].UserID = userID
		rows[i].Position = i
	}
	if len(rows) == 0 {
		return rows
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("failed to create test transactions: %v", err)
	}
	return rows
}
