package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/cache"
	"github.com/startupops/backend/internal/tenant"
)

const statsTTL = 30 * time.Second

type Stats struct {
	Leads           int     `json:"leads"`
	Deals           int     `json:"deals"`
	Tasks           int     `json:"tasks"`
	Employees       int     `json:"employees"`
	PendingLeaves   int     `json:"pending_leaves"`
	Invoices        int     `json:"invoices"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingExpenses int     `json:"pending_expenses"`
}

// Service aggregates the headline counts for a tenant, cached briefly in
// Redis so dashboard polling stays off the database.
type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

func (s *Service) Stats(ctx context.Context, sc tenant.Scope) (*Stats, error) {
	key := "dashboard:stats:global"
	if sc.TenantID != nil {
		key = "dashboard:stats:" + sc.TenantID.String()
	}

	var cached Stats
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("dashboard cache read failed", "error", err)
	}

	st, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, st, statsTTL); err != nil {
		slog.Warn("dashboard cache write failed", "error", err)
	}
	return st, nil
}

func (s *Service) load(ctx context.Context, sc tenant.Scope) (*Stats, error) {
	var st Stats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM leads WHERE %s", &st.Leads},
		{"SELECT COUNT(*) FROM deals WHERE %s", &st.Deals},
		{"SELECT COUNT(*) FROM tasks WHERE %s", &st.Tasks},
		{"SELECT COUNT(*) FROM users WHERE %s", &st.Employees},
		{"SELECT COUNT(*) FROM leaves WHERE status = 'pending' AND %s", &st.PendingLeaves},
		{"SELECT COUNT(*) FROM invoices WHERE %s", &st.Invoices},
		{"SELECT COUNT(*) FROM expenses WHERE status = 'pending' AND %s", &st.PendingExpenses},
	}
	for _, c := range counts {
		clause, args := sc.SQL("tenant_id", 1)
		if err := s.db.QueryRow(ctx, fmt.Sprintf(c.query, clause), args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	clause, args := sc.SQL("tenant_id", 1)
	err := s.db.QueryRow(ctx,
		fmt.Sprintf("SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'paid' AND %s", clause),
		args...).Scan(&st.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	return &st, nil
}
