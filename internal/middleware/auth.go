package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yardpoint/pipeyardgo/internal/config"
	"github.com/yardpoint/pipeyardgo/internal/utils"
)

type contextKey string

// ClaimsContextKey is where validated JWT claims land in the request context
const ClaimsContextKey contextKey = "claims"

// Identity is the caller's resolved identity, extracted from token claims.
// It is transport only: handlers pass ActorID/CompanyID explicitly into the
// yard service, which re-verifies the tenant chain itself.
type Identity struct {
	ActorID   uuid.UUID
	CompanyID uuid.UUID // zero for yard staff
	Role      string
	Email     string
}

// Auth returns middleware verifying JWT bearer tokens
func Auth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ident := Identity{}
			if id, ok := claims["id"].(string); ok {
				ident.ActorID, _ = uuid.Parse(id)
			}
			if cid, ok := claims["company_id"].(string); ok {
				ident.CompanyID, _ = uuid.Parse(cid)
			}
			if role, ok := claims["role"].(string); ok {
				ident.Role = role
			}
			if email, ok := claims["email"].(string); ok {
				ident.Email = email
			}
			if ident.ActorID == uuid.Nil {
				http.Error(w, "Invalid token subject", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the caller identity placed by Auth
func IdentityFrom(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ClaimsContextKey).(Identity)
	return ident, ok
}

// RequireAdmin rejects callers whose token role is not admin
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFrom(r.Context())
		if !ok || ident.Role != "admin" {
			http.Error(w, "Admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
