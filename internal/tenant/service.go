package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const tenantColumns = "id, name, slug, description, industry, website, logo_url, domain, created_at, updated_at"

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.Industry, &t.Website, &t.LogoURL, &t.Domain, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "tenant")
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, name, domain string) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, slug, domain) VALUES ($1, $2, $3)
		 RETURNING `+tenantColumns,
		name, Slugify(name), domain))
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return t, nil
}

// UpdateProfile patches the tenant's company profile. Only non-nil fields
// are written; a rename propagates automatically since records reference the
// tenant by id.
type ProfileUpdate struct {
	Name        *string `json:"company_name"`
	Description *string `json:"company_description"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.Tenant, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("name", upd.Name)
	add("description", upd.Description)
	add("industry", upd.Industry)
	add("website", upd.Website)
	add("logo_url", upd.LogoURL)

	t, err := scanTenant(s.db.QueryRow(ctx,
		"UPDATE tenants SET "+strings.Join(sets, ", ")+" WHERE id = $1 RETURNING "+tenantColumns,
		args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "tenant")
		}
		return nil, fmt.Errorf("update tenant profile: %w", err)
	}
	return t, nil
}

// Slugify lowercases the name and squashes everything but letters and
// digits into hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
