package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func sign(t *testing.T, secret []byte, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func accessClaims(role models.Role, exp time.Time) *Claims {
	return &Claims{
		UserID:     uuid.New(),
		BusinessID: uuid.New(),
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{AudienceAccess},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("k")
	var seen *Claims
	h := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := GetAuthenticatedUser(r)
		require.NoError(t, err)
		seen = c
	}))

	claims := accessClaims(models.RoleChef, time.Now().Add(time.Minute))
	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"header", "Bearer " + sign(t, secret, claims), "", http.StatusOK},
		{"query", "", sign(t, secret, claims), http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, []byte("x"), claims), "", http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, secret, accessClaims(models.RoleChef, time.Now().Add(-time.Minute))), "", http.StatusUnauthorized},
		{"unknown role", "Bearer " + sign(t, secret, accessClaims("admin", time.Now().Add(time.Minute))), "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.query != "" {
				req.URL.RawQuery = "access_token=" + tc.query
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, claims.UserID, seen.Actor().UserID)
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(policy.ManageMenu)(okHandler)
	for role, want := range map[models.Role]int{
		models.RoleOwner:   http.StatusOK,
		models.RoleManager: http.StatusOK,
		models.RoleCashier: http.StatusForbidden,
		models.RoleChef:    http.StatusForbidden,
		models.RoleStaff:   http.StatusForbidden,
	} {
		req := httptest.NewRequest("POST", "/api/menu", nil)
		req = req.WithContext(WithClaims(req.Context(), &Claims{Role: role}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/menu", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
