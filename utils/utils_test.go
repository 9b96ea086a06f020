package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/models"
)

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hashed)
	assert.True(t, CheckPassword(hashed, "secret123"))
	assert.False(t, CheckPassword(hashed, "secret124"))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("k"), time.Minute, time.Hour)
	staff := &models.Staff{ID: uuid.New(), BusinessID: uuid.New(), Email: "a@example.com", Role: models.RoleCashier}

	access, refresh, err := issuer.GenerateTokens(staff)
	require.NoError(t, err)

	id, email, err := issuer.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, id)
	assert.Equal(t, "a@example.com", email)

	_, _, err = issuer.ParseRefreshToken(access)
	assert.Error(t, err, "access tokens are not refresh tokens")

	other := NewTokenIssuer([]byte("other"), time.Minute, time.Hour)
	_, _, err = other.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestRefreshTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer([]byte("k"), time.Minute, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, refresh, err := issuer.GenerateTokens(&models.Staff{ID: uuid.New(), Role: models.RoleStaff})
	require.NoError(t, err)
	_, _, err = issuer.ParseRefreshToken(refresh)
	assert.Error(t, err)
}
