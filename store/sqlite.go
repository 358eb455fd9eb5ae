package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrAccountExists = errors.New("account already exists")

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// each :memory: connection is its own database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY NOT NULL CHECK(email <> ''),
		name TEXT NOT NULL CHECK(name <> ''),
		password_hash TEXT NOT NULL CHECK(password_hash <> ''),
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddAccount(ctx context.Context, account models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		account.Email, account.Name, account.PasswordHash, account.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAccountExists
		}
		return err
	}
	return nil
}

// GetAccount returns the account for email. A missing row is (zero, false, nil).
func (s *SQLiteStore) GetAccount(ctx context.Context, email string) (models.Account, bool, error) {
	var (
		account models.Account
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT email, name, password_hash, created_at
		FROM users
		WHERE email = ?`, email).Scan(&account.Email, &account.Name, &account.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, false, nil
		}
		logging.ErrorLog("store.GetAccount error: %v", err)
		return models.Account{}, false, err
	}
	account.CreatedAt = time.Unix(created, 0)
	return account, true, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, email string) (bool, error) {
	_, found, err := s.GetAccount(ctx, email)
	return found, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
