package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type Auditor interface {
	Record(ctx context.Context, actor *models.User, action, resource, details string)
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string)
}

// Service implements registration and the login flows. Both password and
// biometric failures collapse to the same unauthenticated error so the
// response never says which part was wrong.
type Service struct {
	users  *tenant.Service
	issuer *Issuer
	audit  Auditor
	notify Notifier
}

func NewService(users *tenant.Service, issuer *Issuer, audit Auditor, notify Notifier) *Service {
	return &Service{users: users, issuer: issuer, audit: audit, notify: notify}
}

type Session struct {
	Token                  string       `json:"token"`
	User                   *models.User `json:"user"`
	BiometricSetupRequired bool         `json:"biometric_setup_required"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Domain   string `json:"domain"`
}

// Register creates a tenant and its first admin user in one step.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Company == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "email, password, name and company are required")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	t, err := s.users.Create(ctx, in.Company, in.Domain)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, tenant.NewUser{
		TenantID:     t.ID,
		Email:        in.Email,
		FullName:     in.Name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit.Record(ctx, user, "register", "auth",
		fmt.Sprintf("New user registered: %s", user.Email))
	s.notify.Notify(ctx, user.ID, "Welcome to StartupOps",
		fmt.Sprintf("Account created with %s. Start exploring!", user.Email), "system")

	return &Session{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthenticated, "invalid credentials")
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, apperr.Wrap(apperr.ErrUnauthenticated, "invalid credentials")
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit.Record(ctx, user, "login", "auth", "Password login")
	return &Session{Token: token, User: user, BiometricSetupRequired: user.BiometricSetupDue}, nil
}

func (s *Service) BiometricLogin(ctx context.Context, email, credentialID string) (*Session, error) {
	user, err := s.users.GetUserByBiometric(ctx, email, credentialID)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit.Record(ctx, user, "login", "auth", "Biometric login")
	return &Session{Token: token, User: user}, nil
}

func (s *Service) RegisterBiometric(ctx context.Context, actor *models.User, credentialID, biometricType string) error {
	if credentialID == "" {
		return apperr.Wrap(apperr.ErrValidation, "credential_id is required")
	}
	if err := s.users.RegisterBiometric(ctx, actor.ID, credentialID, biometricType); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "biometric_register", "auth",
		fmt.Sprintf("Registered %s", biometricType))
	s.notify.Notify(ctx, actor.ID, "Biometric Registered",
		fmt.Sprintf("Your %s authentication has been enabled.", biometricType), "system")
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, actor *models.User, current, next string) error {
	if next == "" {
		return apperr.Wrap(apperr.ErrValidation, "new_password is required")
	}
	if !VerifyPassword(current, actor.PasswordHash) {
		return apperr.Wrap(apperr.ErrValidation, "incorrect current password")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, actor.ID, hash); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "change_password", "auth", "Changed password")
	return nil
}
