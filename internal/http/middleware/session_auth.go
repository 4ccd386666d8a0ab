package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/caramelohq/grooming-platform/internal/organizations"
	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MembershipResolver maps an authenticated identity to its org, user and
// role, provisioning on first login.
type MembershipResolver interface {
	EnsureForIdentity(ctx context.Context, identity organizations.Identity) (*organizations.Membership, error)
}

// SessionAuth validates the Bearer session token, resolves the caller's
// organization membership and stores org, user and role in the request
// context. First logins provision a fresh organization with the caller as
// admin.
func SessionAuth(secret string, orgs MembershipResolver, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if secret == "" {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"session auth not configured"}`, http.StatusUnauthorized)
			})
		}
	}

	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, keyFunc)
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"invalid session token"}`, http.StatusUnauthorized)
				return
			}
			if claims.Subject == "" {
				http.Error(w, `{"error":"invalid session token"}`, http.StatusUnauthorized)
				return
			}

			membership, err := orgs.EnsureForIdentity(r.Context(), organizations.Identity{
				ID:    claims.Subject,
				Email: claims.Email,
				Name:  claims.Name,
			})
			if err != nil {
				logger.Error("failed to resolve membership", "error", err, "identity", claims.Subject)
				http.Error(w, `{"error":"failed to resolve account"}`, http.StatusInternalServerError)
				return
			}

			ctx := tenancy.WithOrgID(r.Context(), membership.OrgID.String())
			ctx = tenancy.WithUser(ctx, membership.UserID.String(), tenancy.ParseRole(membership.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
