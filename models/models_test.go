package models

import (
	"fmt"
	"testing"

	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// WithPrivacy sets the account's privacy flag.
func WithPrivacy(private bool) func(*Account) {
	return func(a *Account) {
		a.IsPrivate = private
	}
}

// WithFullName sets the account's full name.
func WithFullName(name string) func(*Account) {
	return func(a *Account) {
		a.FullName = name
	}
}

// MockAccount creates a new account in the database.
func MockAccount(t *testing.T, tx *gorm.DB, username string, opts ...func(*Account)) *Account {
	t.Helper()
	require := require.New(t)

	account := &Account{
		ID:          snowflake.Now(),
		Email:       fmt.Sprintf("%s@example.com", username),
		Username:    username,
		DisplayName: username,
	}
	for _, opt := range opts {
		opt(account)
	}
	require.NoError(tx.Create(account).Error)
	return account
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}
