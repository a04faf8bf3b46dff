package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"quizhost/internal/domain"
)

const maintenanceKey = "maintenance"

// GetMaintenance reads the single maintenance record. A missing row means the
// flag has never been set and reads as disabled.
func (s *Store) GetMaintenance(ctx context.Context) (domain.MaintenanceState, error) {
	var state domain.MaintenanceState
	err := s.pool.QueryRow(ctx, `
		SELECT enabled, updated_at, updated_by FROM settings WHERE key=$1`, maintenanceKey).
		Scan(&state.Enabled, &state.UpdatedAt, &state.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MaintenanceState{}, nil
	}
	if err != nil {
		return domain.MaintenanceState{}, fmt.Errorf("get maintenance: %w", err)
	}
	return state, nil
}

func (s *Store) SetMaintenance(ctx context.Context, state domain.MaintenanceState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (key, enabled, updated_at, updated_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (key) DO UPDATE SET enabled=$2, updated_at=$3, updated_by=$4`,
		maintenanceKey, state.Enabled, state.UpdatedAt, state.UpdatedBy)
	if err != nil {
		return fmt.Errorf("set maintenance: %w", err)
	}
	return nil
}
