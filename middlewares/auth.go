package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
)

const (
	AudienceAccess  = "access"
	AudienceRefresh = "refresh"
)

type Claims struct {
	UserID     uuid.UUID   `json:"user_id"`
	BusinessID uuid.UUID   `json:"business_id"`
	Role       models.Role `json:"role"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() models.Actor {
	return models.Actor{
		UserID:     c.UserID,
		BusinessID: c.BusinessID,
		Name:       c.Name,
		Role:       c.Role,
	}
}

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

// AuthMiddleware accepts access tokens from the Authorization header, or from
// the access_token query parameter for EventSource clients that cannot set headers.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				tokenStr = r.URL.Query().Get("access_token")
			}
			if tokenStr == "" {
				http.Error(w, "unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(AudienceAccess))
			if err != nil || !token.Valid || !claims.Role.IsValid() {
				http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthenticatedUser(r *http.Request) (*Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

// WithClaims stores claims on ctx the way AuthMiddleware does.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

func RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if allowed[claims.Role] {
				next.ServeHTTP(w, r)
				return
			}

			http.Error(w, "forbidden: insufficient role", http.StatusForbidden)
		})
	}
}

// RequirePermission gates a route on the roles holding perm.
func RequirePermission(perm policy.Permission) func(http.Handler) http.Handler {
	return RoleBasedMiddleware(policy.RolesWith(perm)...)
}
