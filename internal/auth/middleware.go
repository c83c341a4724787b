package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type Middleware struct {
	issuer        *Issuer
	tenantService *tenant.Service
}

func NewMiddleware(issuer *Issuer, ts *tenant.Service) *Middleware {
	return &Middleware{issuer: issuer, tenantService: ts}
}

// Authenticate resolves the bearer token to a live user and tenant and puts
// both on the request context. A well-signed token for a deleted user is
// rejected the same as a malformed one.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := m.issuer.Parse(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		userID, err := uuid.Parse(claims.Sub)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid user ID in token")
			return
		}

		ctx := r.Context()

		user, err := m.tenantService.GetUserByID(ctx, userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}

		t, err := m.tenantService.GetByID(ctx, user.TenantID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "tenant not found")
			return
		}

		ctx = tenant.WithTenant(ctx, t)
		ctx = tenant.WithUser(ctx, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles enforces the per-endpoint role allow-list. It runs after
// Authenticate, so a missing user means a wiring bug rather than a bad
// credential.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := tenant.UserFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !allowed[user.Role] {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
