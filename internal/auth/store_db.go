package auth

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"InventoryAPI/internal/storage"
)

type SQLStore struct {
	db *storage.DB
}

func NewSQLStore(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *SQLStore) Create(ctx context.Context, email, password, role, id string) error {
	email = normalizeEmail(email)
	password = normalizePassword(password)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return storage.WithTimeout(ctx, storage.QueryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`
			INSERT INTO users (id, email, pass_hash, role)
			VALUES ($1, $2, $3, $4)
		`), id, email, hash, role)

		if err == nil {
			return nil
		}
		if s.db.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	})
}

func (s *SQLStore) Verify(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	password = normalizePassword(password)

	var u User
	err := storage.WithTimeout(ctx, storage.QueryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.db.Rebind(`
			SELECT id, email, pass_hash, role
			FROM users
			WHERE email = $1
		`), email).Scan(&u.ID, &u.Email, &u.Hash, &u.Role)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}
