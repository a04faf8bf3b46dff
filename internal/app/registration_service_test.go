package app_test

import (
	"context"
	"testing"

	"quizhost/internal/app"
	"quizhost/internal/domain"
)

type fakeRegistrationStore struct {
	regs []domain.Registration
}

func (f *fakeRegistrationStore) InsertRegistration(_ context.Context, reg domain.Registration) error {
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationStore) ListRegistrations(context.Context) ([]domain.Registration, error) {
	return f.regs, nil
}

func (f *fakeRegistrationStore) DeleteRegistration(_ context.Context, id string) error {
	for i, reg := range f.regs {
		if reg.ID == id {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return domain.ErrRegistrationNotFound
}

func TestRegistrationCreateFillsAuditFields(t *testing.T) {
	store := &fakeRegistrationStore{}
	service := app.NewRegistrationService(store)

	reg, err := service.Create(context.Background(), "admin@example.com", app.RegistrationInput{
		Name:       "Alice",
		RollNumber: "R1",
		Email:      "alice@example.com",
		Event:      "Tech Fest",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reg.ID == "" || reg.RegisteredAt.IsZero() {
		t.Fatalf("id and timestamp must be filled: %+v", reg)
	}
	if reg.RegisteredBy != "admin@example.com" {
		t.Fatalf("expected registeredBy to be recorded, got %q", reg.RegisteredBy)
	}

	if err := service.Delete(context.Background(), reg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	regs, _ := service.List(context.Background())
	if len(regs) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(regs))
	}
}
