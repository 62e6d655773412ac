// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("user name already used")
)

// UserStore reads and writes the users table through a request-scoped handle.
type UserStore struct {
	q db.DBTX
}

func NewUserStore(q db.DBTX) *UserStore {
	return &UserStore{q: q}
}

// Create inserts a non-expert, non-admin user and fills in its ID.
// A name collision, including one lost to a concurrent insert, yields
// ErrDuplicateName.
func (s *UserStore) Create(ctx context.Context, name, passwordHash string) (*models.User, error) {
	user := &models.User{Name: name, PasswordHash: passwordHash}

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO users (name, password, expert, admin)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, name, passwordHash, false, false).Scan(&user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetByName looks a user up by exact, case-sensitive name.
func (s *UserStore) GetByName(ctx context.Context, name string) (*models.User, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, name, password, expert, admin FROM users WHERE name = ?
	`, name))
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, name, password, expert, admin FROM users WHERE id = ?
	`, id))
}

// Exists reports whether a user with the given name is registered.
func (s *UserStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.GetByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every user ordered by id. Password hashes are not loaded.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, `SELECT id, name, expert, admin FROM users ORDER BY id`)
}

// ListExperts returns the users currently flagged expert.
func (s *UserStore) ListExperts(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, `SELECT id, name, expert, admin FROM users WHERE expert = ? ORDER BY id`, true)
}

// ToggleExpert flips the expert flag in a single statement; concurrent
// toggles are last-write-wins.
func (s *UserStore) ToggleExpert(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `UPDATE users SET expert = NOT expert WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("toggle expert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle expert: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdmin grants or revokes the admin flag for the named user.
func (s *UserStore) SetAdmin(ctx context.Context, name string, admin bool) error {
	res, err := s.q.ExecContext(ctx, `UPDATE users SET admin = ? WHERE name = ?`, admin, name)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Expert, &user.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (s *UserStore) list(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Expert, &u.Admin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
