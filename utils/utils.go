package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ray-remotestate/restro-pos/middlewares"
	"github.com/ray-remotestate/restro-pos/models"
)

type refreshClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and refresh tokens with one HMAC secret.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (t *TokenIssuer) RefreshTTL() time.Duration {
	return t.refreshTTL
}

func (t *TokenIssuer) GenerateTokens(staff *models.Staff) (accessToken string, refreshToken string, err error) {
	accessToken, err = t.GenerateAccessToken(staff)
	if err != nil {
		return "", "", err
	}

	now := t.now()
	claims := refreshClaims{
		Email: staff.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.String(),
			Audience:  jwt.ClaimStrings{middlewares.AudienceRefresh},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (t *TokenIssuer) GenerateAccessToken(staff *models.Staff) (string, error) {
	now := t.now()
	claims := &middlewares.Claims{
		UserID:     staff.ID,
		BusinessID: staff.BusinessID,
		Role:       staff.Role,
		Name:       staff.Name,
		Email:      staff.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.String(),
			Audience:  jwt.ClaimStrings{middlewares.AudienceAccess},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseRefreshToken returns the staff id and email a refresh token was issued for.
func (t *TokenIssuer) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	claims := &refreshClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(middlewares.AudienceRefresh))
	if err != nil || !parsed.Valid {
		return uuid.Nil, "", errors.New("invalid refresh token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid refresh subject: %w", err)
	}
	return id, claims.Email, nil
}

func HashPassword(pw string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
