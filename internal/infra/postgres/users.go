package postgres

import (
	"context"
	"fmt"
	"strings"

	"quizhost/internal/domain"
)

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, organization, password_hash, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Organization, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) InsertUser(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, organization, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		user.ID, user.Email, user.Name, user.Organization, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUserName(ctx context.Context, email, name string) error {
	ct, err := s.pool.Exec(ctx, `UPDATE users SET name=$2 WHERE email=$1`, email, name)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) UpdateUserOrganization(ctx context.Context, email, organization string) error {
	ct, err := s.pool.Exec(ctx, `UPDATE users SET organization=$2 WHERE email=$1`, email, organization)
	if err != nil {
		return fmt.Errorf("update user organization: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
