// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/danielhkuo/foodgram/db"
	"github.com/danielhkuo/foodgram/models"
)

// CreateUser inserts a user whose Password already holds a hash
func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	var taken struct {
		Email    bool `db:"email_taken"`
		Username bool `db:"username_taken"`
	}
	err := s.get(ctx, &taken, s.sb.Select().
		Column(sq.Expr("EXISTS (SELECT 1 FROM app_user WHERE email = ?) AS email_taken", u.Email)).
		Column(sq.Expr("EXISTS (SELECT 1 FROM app_user WHERE username = ?) AS username_taken", u.Username)))
	if err != nil {
		return 0, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if taken.Email {
		return 0, ErrEmailTaken
	}
	if taken.Username {
		return 0, ErrUsernameTaken
	}

	query, args, err := s.sb.Insert("app_user").
		Columns("email", "username", "first_name", "last_name", "password").
		Values(u.Email, u.Username, u.FirstName, u.LastName, u.Password).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build user insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		// Lost a race with a concurrent sign-up
		if db.IsUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"email": email})
}

func (s *Store) getUser(ctx context.Context, where sq.Eq) (*models.User, error) {
	var u models.User
	err := s.get(ctx, &u, s.sb.Select("id", "email", "username", "first_name", "last_name", "password").
		From("app_user").Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// SetPassword replaces a user's password hash
func (s *Store) SetPassword(ctx context.Context, userID int64, hash string) error {
	query, args, err := s.sb.Update("app_user").Set("password", hash).Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build password update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) profileSelect(viewerID int64) sq.SelectBuilder {
	return s.sb.Select("u.id", "u.email", "u.username", "u.first_name", "u.last_name").
		Column(sq.Expr("EXISTS (SELECT 1 FROM subscription s WHERE s.user_id = ? AND s.author_id = u.id) AS is_subscribed", viewerID)).
		From("app_user u")
}

// GetProfile returns user id as seen by viewerID (0 for anonymous)
func (s *Store) GetProfile(ctx context.Context, id, viewerID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.get(ctx, &p, s.profileSelect(viewerID).Where(sq.Eq{"u.id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &p, nil
}

// ListProfiles returns one page of users ordered by id and the total count
func (s *Store) ListProfiles(ctx context.Context, viewerID int64, limit, offset int) ([]models.UserProfile, int, error) {
	var total int
	if err := s.get(ctx, &total, s.sb.Select("COUNT(*)").From("app_user")); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	profiles := []models.UserProfile{}
	err := s.selectAll(ctx, &profiles, s.profileSelect(viewerID).
		OrderBy("u.id").Limit(uint64(limit)).Offset(uint64(offset)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return profiles, total, nil
}

// CreateToken stores an API token for a user
func (s *Store) CreateToken(ctx context.Context, userID int64, key string) error {
	query, args, err := s.sb.Insert("auth_token").Columns("key", "user_id").Values(key, userID).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build token insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

// UserIDByToken resolves an API token to its user
func (s *Store) UserIDByToken(ctx context.Context, key string) (int64, error) {
	var id int64
	err := s.get(ctx, &id, s.sb.Select("user_id").From("auth_token").Where(sq.Eq{"key": key}))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query token: %w", err)
	}
	return id, nil
}

// DeleteToken revokes an API token
func (s *Store) DeleteToken(ctx context.Context, key string) error {
	query, args, err := s.sb.Delete("auth_token").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build token delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
