// Command seed loads a JSON fixture of users and their ledgers into the
// configured database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"argentbank/internal/auth"
	"argentbank/internal/config"
	"argentbank/internal/database"
	apperrors "argentbank/internal/errors"
	"argentbank/internal/logger"
	"argentbank/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	fixturePath := flag.String("file", "fixtures/users.json", "path to the users fixture")
	flag.Parse()

	if err := run(*fixturePath); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run(fixturePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	users, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	dbManager, err := database.NewManager(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer closeDatabase(dbManager)

	if err := dbManager.Migrate(cfg.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpirationDur)
	userService := services.NewUserService(dbManager.DB(), auth.NewBcryptHasher(cfg.BcryptCost), tokens)

	created, skipped, err := seed(userService, users)
	if err != nil {
		return err
	}
	logger.Get().Infow("seed complete", "created", created, "skipped", skipped)
	return nil
}

// seed creates every fixture user. Users whose email already exists are skipped.
func seed(userService services.UserServicer, users []fixtureUser) (created, skipped int, err error) {
	log := logger.Get()
	for _, u := range users {
		_, err := userService.CreateUser(u.Email, u.Password, u.FirstName, u.LastName, u.ledger())
		switch {
		case err == nil:
			created++
			log.Infow("user created", "email", u.Email, "transactions", len(u.Transactions))
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			skipped++
			log.Infow("user exists, skipping", "email", u.Email)
		default:
			return created, skipped, fmt.Errorf("failed to create %s: %w", u.Email, err)
		}
	}
	return created, skipped, nil
}

// closeDatabase releases the connection pool and logs a failure.
func closeDatabase(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Get().Warnf("database close error: %v", err)
	}
}
