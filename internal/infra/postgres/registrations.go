package postgres

import (
	"context"
	"fmt"

	"quizhost/internal/domain"
)

func (s *Store) InsertRegistration(ctx context.Context, reg domain.Registration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO registrations (id, name, roll_number, email, phone, event, registered_at, registered_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		reg.ID, reg.Name, reg.RollNumber, reg.Email, reg.Phone, reg.Event, reg.RegisteredAt, reg.RegisteredBy)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *Store) ListRegistrations(ctx context.Context) ([]domain.Registration, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, roll_number, email, phone, event, registered_at, registered_by
		FROM registrations ORDER BY registered_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := []domain.Registration{}
	for rows.Next() {
		var r domain.Registration
		if err := rows.Scan(&r.ID, &r.Name, &r.RollNumber, &r.Email, &r.Phone, &r.Event, &r.RegisteredAt, &r.RegisteredBy); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

func (s *Store) DeleteRegistration(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM registrations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}
