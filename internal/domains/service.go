package domains

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
)

// tldPrices is the fixed registration price table, in order of display.
var tlds = []string{".com", ".io", ".co", ".dev", ".app"}

var tldPrices = map[string]float64{
	".com": 12.99,
	".io":  24.99,
	".co":  14.99,
	".dev": 19.99,
	".app": 16.99,
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CheckResult struct {
	Domain    string  `json:"domain"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
}

// normalize reduces a candidate to its base label: lowercased, spaces
// stripped, anything after the first dot dropped.
func normalize(candidate string) string {
	base := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(candidate)), " ", "")
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// registryAvailable simulates the upstream registry's answer for names we
// have no record of. The FNV hash keeps the answer stable per name, so
// repeat checks agree with each other.
func registryAvailable(domain string) bool {
	h := fnv.New32a()
	h.Write([]byte(domain))
	return h.Sum32()%4 != 0
}

// Check reports availability and price for the base name across every TLD.
func (s *Service) Check(ctx context.Context, candidate string) ([]CheckResult, error) {
	base := normalize(candidate)
	if len(base) < 2 {
		return nil, apperr.Wrap(apperr.ErrValidation, "invalid domain name")
	}

	results := make([]CheckResult, 0, len(tlds))
	for _, tld := range tlds {
		full := base + tld
		var taken bool
		err := s.db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM domains WHERE domain = $1)", full).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("check domain %s: %w", full, err)
		}
		results = append(results, CheckResult{
			Domain:    full,
			Available: !taken && registryAvailable(full),
			Price:     tldPrices[tld],
		})
	}
	return results, nil
}

// Purchase registers a domain for one year. An already registered name is a
// conflict.
func (s *Service) Purchase(ctx context.Context, domain, email string) (*models.Domain, error) {
	if domain == "" || email == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "domain and email are required")
	}

	now := time.Now().UTC()
	var d models.Domain
	err := s.db.QueryRow(ctx,
		`INSERT INTO domains (domain, owner_email, status, purchased_at, expires_at)
		 VALUES ($1, $2, 'active', $3, $4)
		 ON CONFLICT (domain) DO NOTHING
		 RETURNING id, domain, owner_email, status, purchased_at, expires_at`,
		domain, email, now, now.AddDate(1, 0, 0)).Scan(
		&d.ID, &d.Domain, &d.OwnerEmail, &d.Status, &d.PurchasedAt, &d.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrConflict, "domain already taken")
		}
		return nil, fmt.Errorf("purchase domain: %w", err)
	}
	return &d, nil
}
