package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"argentbank/internal/models"
)

type fixtureTransaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Details     models.Details  `json:"details"`
}

type fixtureUser struct {
	Email        string               `json:"email"`
	Password     string               `json:"password"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Transactions []fixtureTransaction `json:"transactions"`
}

func (u fixtureUser) ledger() []models.Transaction {
	out := make([]models.Transaction, len(u.Transactions))
	for i, t := range u.Transactions {
		out[i] = models.Transaction{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Balance:     t.Balance,
			Details:     t.Details,
		}
	}
	return out
}

func loadFixture(path string) ([]fixtureUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) ([]fixtureUser, error) {
	var users []fixtureUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return users, nil
}
