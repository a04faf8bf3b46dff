package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

// UserStore is the persistence surface for identity records.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	InsertUser(ctx context.Context, user domain.User) error
	UpdateUserName(ctx context.Context, email, name string) error
	UpdateUserOrganization(ctx context.Context, email, organization string) error
}

// AdminCredentials is the configured platform admin. The admin flag is derived
// from matching this email at sign-in; it is never stored on a user record.
type AdminCredentials struct {
	Email    string
	Password string
}

// UserService handles sign-up, credential checks, and profile updates.
type UserService struct {
	store UserStore
	admin AdminCredentials
	log   *logger.Logger
	now   func() time.Time
}

func NewUserService(store UserStore, admin AdminCredentials, log *logger.Logger) *UserService {
	return &UserService{store: store, admin: admin, log: log, now: time.Now}
}

// SignUp creates a user record with a bcrypt password hash.
func (s *UserService) SignUp(ctx context.Context, name, email, password, organization string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Organization: organization,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.log.Info("user signed up", "email", email)
	return user, nil
}

// SignIn checks credentials against the configured admin first, then the user
// table, and returns the caller identity for the session cookie.
func (s *UserService) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.admin.Email != "" && email == strings.ToLower(s.admin.Email) {
		if password == s.admin.Password {
			return domain.Identity{Email: email, Name: "Admin", Organization: "System", IsAdmin: true}, nil
		}
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return domain.Identity{
		Email:        user.Email,
		Name:         user.Name,
		Organization: user.Organization,
		IsAdmin:      false,
	}, nil
}

// UpdateProfile changes the caller's display name.
func (s *UserService) UpdateProfile(ctx context.Context, email, name string) error {
	return s.store.UpdateUserName(ctx, email, name)
}

// UpdateOrganization changes the caller's organization/college/club.
func (s *UserService) UpdateOrganization(ctx context.Context, email, organization string) error {
	return s.store.UpdateUserOrganization(ctx, email, organization)
}
