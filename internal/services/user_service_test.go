package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"argentbank/internal/auth"
	"argentbank/internal/models"
	"argentbank/internal/testutil"
)

const testSecret = "test-secret"

func newTestUserService(db *gorm.DB) (UserServicer, *auth.TokenManager) {
	tokens := auth.NewTokenManager(testSecret, "argentbank-api", time.Hour)
	return NewUserService(db, auth.NewBcryptHasher(bcrypt.MinCost), tokens), tokens
}

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user, err := svc.CreateUser("tony@stark.com", "password123", "Tony", "Stark", nil)
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected generated user ID")
		}
		if user.FirstName != "Tony" || user.LastName != "Stark" {
			t.Errorf("unexpected names %q %q", user.FirstName, user.LastName)
		}
		if user.Password == "password123" {
			t.Error("password must be stored hashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
	})

	t.Run("stores_transactions_in_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		txs := []models.Transaction{
			testutil.NewTestTransaction("TS0002-0001"),
			testutil.NewTestTransaction("TS0001-0001"),
			testutil.NewTestTransaction("TS0003-0001"),
		}
		user, err := svc.CreateUser("steve@rogers.com", "password456", "Steve", "Rogers", txs)
		testutil.AssertNoError(t, err)

		var stored []models.Transaction
		if err := db.Where("user_id = ?", user.ID).Order("position").Find(&stored).Error; err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(stored) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(stored))
		}
		for i, want := range []string{"TS0002-0001", "TS0001-0001", "TS0003-0001"} {
			if stored[i].ID != want {
				t.Errorf("transaction %d: id = %s, want %s", i, stored[i].ID, want)
			}
		}
		if stored[0].Details != txs[0].Details {
			t.Errorf("details = %+v, want %+v", stored[0].Details, txs[0].Details)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "", "", nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "", "",
			[]models.Transaction{testutil.NewTestTransaction("TS0001-0001")})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")

		var users, txs int64
		db.Model(&models.User{}).Count(&users)
		db.Model(&models.Transaction{}).Count(&txs)
		if users != 1 || txs != 0 {
			t.Errorf("expected 1 user and 0 transactions after duplicate signup, got %d and %d", users, txs)
		}
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("", "password123", "", "", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("test@example.com", "", "", "", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("password_over_bcrypt_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("long@pw.com", strings.Repeat("a", 73), "", "", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		// 25 three-byte runes are 75 bytes.
		_, err = svc.CreateUser("euro@pw.com", strings.Repeat("€", 25), "", "", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		var count int64
		db.Model(&models.User{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no user created, got %d", count)
		}
	})

	t.Run("password_at_bcrypt_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		password := strings.Repeat("a", 72)
		_, err := svc.CreateUser("max@pw.com", password, "", "", nil)
		testutil.AssertNoError(t, err)

		_, err = svc.LoginUser("max@pw.com", password)
		testutil.AssertNoError(t, err)
	})

	t.Run("ledger_amount_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		tooPrecise := testutil.NewTestTransaction("TS0001-0001")
		tooPrecise.Amount = decimal.RequireFromString("5.001")
		_, err := svc.CreateUser("scale@example.com", "password123", "", "", []models.Transaction{tooPrecise})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		tooLarge := testutil.NewTestTransaction("TS0001-0001")
		tooLarge.Balance = decimal.New(1, 12)
		_, err = svc.CreateUser("size@example.com", "password123", "", "", []models.Transaction{tooLarge})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("malformed_transaction_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("bad@example.com", "password123", "", "",
			[]models.Transaction{testutil.NewTestTransaction("12345")})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("repeated_transaction_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.CreateUser("rep@example.com", "password123", "", "", []models.Transaction{
			testutil.NewTestTransaction("TS0001-0001"),
			testutil.NewTestTransaction("TS0001-0001"),
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user, err := svc.CreateUser("  Tony@STARK.com ", "password123", "", "", nil)
		testutil.AssertNoError(t, err)

		if user.Email != "tony@stark.com" {
			t.Errorf("expected normalized email, got %s", user.Email)
		}
	})
}

func TestLoginUser(t *testing.T) {
	t.Run("signup_then_login_resolves_same_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, tokens := newTestUserService(db)

		user, err := svc.CreateUser("tony@stark.com", "password123", "Tony", "Stark", nil)
		testutil.AssertNoError(t, err)

		token, err := svc.LoginUser("tony@stark.com", "password123")
		testutil.AssertNoError(t, err)

		userID, err := tokens.Verify(token)
		testutil.AssertNoError(t, err)
		if userID != user.ID {
			t.Errorf("token resolves to %s, want %s", userID, user.ID)
		}

		profile, err := svc.GetUserProfile(userID)
		testutil.AssertNoError(t, err)
		if profile.ID != user.ID {
			t.Errorf("profile id = %s, want %s", profile.ID, user.ID)
		}
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		token, err := svc.LoginUser("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
		if token != "" {
			t.Error("no token should be issued")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		token, err := svc.LoginUser(user.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		if token != "" {
			t.Error("no token should be issued")
		}
	})

	t.Run("email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		testutil.CreateTestUserWithEmail(t, db, "case@example.com")
		_, err := svc.LoginUser("CASE@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		profile, err := svc.GetUserProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.Email != user.Email || profile.FirstName != "Test" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.GetUserProfile("0190a5c8-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestUpdateUserProfile(t *testing.T) {
	t.Run("updates_names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransactions(t, db, user.ID, "TS0001-0001")

		profile, err := svc.UpdateUserProfile(user.ID, "Bruce", "Banner")
		testutil.AssertNoError(t, err)
		if profile.FirstName != "Bruce" || profile.LastName != "Banner" {
			t.Errorf("unexpected profile after update %+v", profile)
		}
		if profile.Email != user.Email {
			t.Errorf("email changed to %s", profile.Email)
		}

		var stored models.User
		db.First(&stored, "id = ?", user.ID)
		if stored.FirstName != "Bruce" || stored.Password != user.Password {
			t.Errorf("unexpected stored user %+v", stored)
		}
		var txs int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txs)
		if txs != 1 {
			t.Errorf("transactions changed by profile update: %d", txs)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.UpdateUserProfile("0190a5c8-0000-7000-8000-000000000000", "A", "B")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
