package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"argentbank/internal/auth"
	"argentbank/internal/config"
	"argentbank/internal/logger"
	"argentbank/internal/services"
	"argentbank/internal/testutil"
)

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Tokens *auth.TokenManager
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		AllowedOrigins:   []string{"*"},
		JWTSecret:        "flow-test-secret",
		JWTIssuer:        "argentbank-api",
		JWTExpirationDur: time.Hour,
		BcryptCost:       bcrypt.MinCost,
	}
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := testConfig()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpirationDur)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	router := NewRouter(cfg, Deps{
		Users:        services.NewUserService(db, hasher, tokens),
		Transactions: services.NewTransactionService(db),
		Audit:        services.NewAuditService(db),
		Tokens:       tokens,
	})

	return &testApp{DB: db, Router: router, Tokens: tokens}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user with the given transaction ids and returns the user id.
func (app *testApp) signup(t *testing.T, email, password string, transactionIDs ...string) string {
	t.Helper()

	txs := make([]string, len(transactionIDs))
	for i, id := range transactionIDs {
		txs[i] = fmt.Sprintf(`{"id":%q,"date":"2020-06-20T00:00:00Z","description":"Golden Sun Bakery %d",`+
			`"amount":"%d.00","balance":"2082.79","details":{"type":"Electronic","category":"Food","notes":""}}`, id, i, i+1)
	}
	body := fmt.Sprintf(`{"email":%q,"password":%q,"firstName":"Tony","lastName":"Jarvis","transactions":[%s]}`,
		email, password, strings.Join(txs, ","))

	rec := app.request(http.MethodPost, "/api/v1/user/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["id"].(string)
}

func (app *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/user/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}
