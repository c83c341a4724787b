package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
)

const userColumns = `id, tenant_id, email, full_name, password_hash, role, department, subscription,
	biometric_enabled, biometric_credential_id, biometric_type, biometric_setup_required, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.Department,
		&u.Subscription, &u.BiometricEnabled, &u.BiometricID, &u.BiometricType, &u.BiometricSetupDue, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "user")
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

type NewUser struct {
	TenantID          uuid.UUID
	Email             string
	FullName          string
	PasswordHash      string
	Role              models.Role
	Department        string
	Subscription      string
	BiometricSetupDue bool
}

func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*models.User, error) {
	if nu.Department == "" {
		nu.Department = "general"
	}
	if nu.Subscription == "" {
		nu.Subscription = "free"
	}
	u, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (tenant_id, email, full_name, password_hash, role, department, subscription, biometric_setup_required)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+userColumns,
		nu.TenantID, normalizeEmail(nu.Email), nu.FullName, nu.PasswordHash, nu.Role, nu.Department, nu.Subscription, nu.BiometricSetupDue))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.ErrConflict, "email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ListUsers returns the users visible under the scope, newest first.
func (s *Service) ListUsers(ctx context.Context, sc Scope) ([]models.User, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Service) CountUsers(ctx context.Context, sc Scope) (int, error) {
	clause, args := sc.SQL("tenant_id", 1)
	var n int
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+clause, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// DeleteUser removes a user visible under the scope. A user in another
// tenant reports not-found, never forbidden.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID, sc Scope) (*models.User, error) {
	target, err := s.getUserScoped(ctx, id, sc)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return target, nil
}

func (s *Service) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role, sc Scope) error {
	if !role.Valid() {
		return apperr.Wrap(apperr.ErrValidation, "invalid role")
	}
	if _, err := s.getUserScoped(ctx, id, sc); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, id); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.db.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Service) UpdateSubscription(ctx context.Context, id uuid.UUID, plan string) error {
	_, err := s.db.Exec(ctx, "UPDATE users SET subscription = $1 WHERE id = $2", plan, id)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// RegisterBiometric stores the credential and clears the setup-required
// flag set when the user was invited.
func (s *Service) RegisterBiometric(ctx context.Context, id uuid.UUID, credentialID, biometricType string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET biometric_credential_id = $1, biometric_type = $2,
		 biometric_enabled = TRUE, biometric_setup_required = FALSE WHERE id = $3`,
		credentialID, biometricType, id)
	if err != nil {
		return fmt.Errorf("register biometric: %w", err)
	}
	return nil
}

func (s *Service) GetUserByBiometric(ctx context.Context, email, credentialID string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email = $1 AND biometric_credential_id = $2 AND biometric_enabled = TRUE`,
		normalizeEmail(email), credentialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrUnauthenticated, "biometric authentication failed")
		}
		return nil, fmt.Errorf("get user by biometric: %w", err)
	}
	return u, nil
}

func (s *Service) getUserScoped(ctx context.Context, id uuid.UUID, sc Scope) (*models.User, error) {
	args := []interface{}{id}
	q := "SELECT " + userColumns + " FROM users WHERE id = $1"
	if sc.TenantID != nil {
		q += " AND tenant_id = $2"
		args = append(args, *sc.TenantID)
	}
	u, err := scanUser(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
