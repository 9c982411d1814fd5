package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"argentbank/internal/auth"
	apperrors "argentbank/internal/errors"
	"argentbank/internal/models"
)

// userService handles signup, login and profile management.
type userService struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
	tokens *auth.TokenManager
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, hasher auth.PasswordHasher, tokens *auth.TokenManager) UserServicer {
	return &userService{db: db, hasher: hasher, tokens: tokens}
}

// CreateUser registers a new user together with the supplied transactions.
// Email uniqueness is enforced by the users.email unique index, so two
// concurrent signups with the same email cannot both succeed.
func (s *userService) CreateUser(email, password, firstName, lastName string, transactions []models.Transaction) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "email and password are required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.WithMessage(apperrors.ErrValidation,
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}
	if err := validateSignupTransactions(transactions); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transactions").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateEmail
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if len(transactions) == 0 {
			return nil
		}
		rows := make([]models.Transaction, len(transactions))
		for i, t := range transactions {
			t.UserID = user.ID
			t.Position = i
			rows[i] = t
		}
		if err := tx.Create(&rows).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Transactions = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// validateSignupTransactions checks the ids that key the transaction rows and
// that amounts fit numeric(14,2). Ledger fields are otherwise stored as supplied.
func validateSignupTransactions(transactions []models.Transaction) error {
	seen := make(map[string]struct{}, len(transactions))
	for _, t := range transactions {
		if !models.IsValidTransactionID(t.ID) {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("invalid transaction id %q", t.ID))
		}
		if _, dup := seen[t.ID]; dup {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("duplicate transaction id %q", t.ID))
		}
		seen[t.ID] = struct{}{}
		if !models.IsValidLedgerAmount(t.Amount) || !models.IsValidLedgerAmount(t.Balance) {
			return apperrors.WithMessage(apperrors.ErrValidation,
				fmt.Sprintf("transaction %q: amount and balance need at most 2 decimals and 12 integer digits", t.ID))
		}
	}
	return nil
}

// LoginUser checks the credentials and issues a bearer token.
func (s *userService) LoginUser(email, password string) (string, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return token, nil
}

// GetUserProfile returns the public profile of the user.
func (s *userService) GetUserProfile(userID string) (*models.Profile, error) {
	user, err := findUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateUserProfile sets the user's names and returns the updated profile.
func (s *userService) UpdateUserProfile(userID, firstName, lastName string) (*models.Profile, error) {
	var user *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"first_name": firstName,
				"last_name":  lastName,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}

		var err error
		user, err = findUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// findUser loads a user by id without its transactions.
func findUser(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
