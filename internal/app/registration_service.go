package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quizhost/internal/domain"
)

// RegistrationStore is the persistence surface for event sign-ups.
type RegistrationStore interface {
	InsertRegistration(ctx context.Context, reg domain.Registration) error
	ListRegistrations(ctx context.Context) ([]domain.Registration, error)
	DeleteRegistration(ctx context.Context, id string) error
}

// RegistrationInput is the validated create request.
type RegistrationInput struct {
	Name       string
	RollNumber string
	Email      string
	Phone      string
	Event      string
}

// RegistrationService manages ad-hoc event sign-ups. These have no
// relationship to quizzes.
type RegistrationService struct {
	store RegistrationStore
	now   func() time.Time
}

func NewRegistrationService(store RegistrationStore) *RegistrationService {
	return &RegistrationService{store: store, now: time.Now}
}

func (s *RegistrationService) Create(ctx context.Context, registeredBy string, input RegistrationInput) (domain.Registration, error) {
	reg := domain.Registration{
		ID:           uuid.NewString(),
		Name:         input.Name,
		RollNumber:   input.RollNumber,
		Email:        input.Email,
		Phone:        input.Phone,
		Event:        input.Event,
		RegisteredAt: s.now(),
		RegisteredBy: registeredBy,
	}
	if err := s.store.InsertRegistration(ctx, reg); err != nil {
		return domain.Registration{}, err
	}
	return reg, nil
}

// List returns all registrations, newest first.
func (s *RegistrationService) List(ctx context.Context) ([]domain.Registration, error) {
	return s.store.ListRegistrations(ctx)
}

func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRegistration(ctx, id)
}
