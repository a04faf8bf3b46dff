package app

import (
	"context"
	"time"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// SettingsStore reads and writes the single named maintenance record.
type SettingsStore interface {
	GetMaintenance(ctx context.Context) (domain.MaintenanceState, error)
	SetMaintenance(ctx context.Context, state domain.MaintenanceState) error
}

// MaintenanceService exposes the global read-only-mode flag through one
// explicit record rather than a bare existence check.
type MaintenanceService struct {
	store SettingsStore
	log   *logger.Logger
	now   func() time.Time
}

func NewMaintenanceService(store SettingsStore, log *logger.Logger) *MaintenanceService {
	return &MaintenanceService{store: store, log: log, now: time.Now}
}

// Enabled reports whether maintenance mode is on. A read failure reports off
// so the platform never locks itself out on a settings outage.
func (s *MaintenanceService) Enabled(ctx context.Context) bool {
	state, err := s.store.GetMaintenance(ctx)
	if err != nil {
		s.log.Warn("maintenance flag read failed", "err", err)
		return false
	}
	return state.Enabled
}

// Set flips the flag, recording who did it and when.
func (s *MaintenanceService) Set(ctx context.Context, enabled bool, by string) error {
	return s.store.SetMaintenance(ctx, domain.MaintenanceState{
		Enabled:   enabled,
		UpdatedAt: s.now(),
		UpdatedBy: by,
	})
}
