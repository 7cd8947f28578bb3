package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cardapio-go/internal/model"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("store: user not found")

// UserStore provides row access for admin accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore over the given database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

// GetByEmail returns the user with the given email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.get(ctx, `WHERE email = ?`, email)
}

func (s *UserStore) get(ctx context.Context, where string, arg any) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at, updated_at, last_login_at
		FROM users `+where, arg)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("store: getting user: %w", err)
	}
	return u, nil
}

// Create inserts a new user and returns it with the assigned id.
func (s *UserStore) Create(ctx context.Context, email, name, passwordHash, role string) (model.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		email, name, passwordHash, role, now, now)
	if err != nil {
		return model.User{}, fmt.Errorf("store: creating user %s: %w", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("store: creating user %s: %w", email, err)
	}
	return model.User{
		ID: id, Email: email, Name: name, PasswordHash: passwordHash,
		Role: role, CreatedAt: now, UpdatedAt: now,
	}, nil
}

// Count returns the number of users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: counting users: %w", err)
	}
	return count, nil
}

// TouchLastLogin records a successful login.
func (s *UserStore) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("store: touching last login for user %d: %w", id, err)
	}
	return nil
}
