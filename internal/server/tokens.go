package server

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/boarding-dev/placement-client/internal/models"
	appErrors "github.com/boarding-dev/placement-client/pkg/errors"
)

// Claims carried by demo access tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues short-lived HS256 access tokens and rotating opaque
// refresh tokens. Expired access tokens are what give the SDK client a
// realistic 401/refresh cycle to exercise.
type TokenService struct {
	secret        []byte
	expiry        time.Duration
	refreshExpiry time.Duration
	now           func() time.Time

	mu      sync.Mutex
	refresh map[string]refreshRecord
}

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

// NewTokenService builds a token issuer with the given signing secret.
func NewTokenService(secret string, expiry, refreshExpiry time.Duration) *TokenService {
	return &TokenService{
		secret:        []byte(secret),
		expiry:        expiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
		refresh:       make(map[string]refreshRecord),
	}
}

// Issue creates a fresh token pair for the user.
func (t *TokenService) Issue(user models.StudentUser) (models.AuthTokens, error) {
	issuedAt := t.now().UTC()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return models.AuthTokens{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	refreshToken, err := randomToken()
	if err != nil {
		return models.AuthTokens{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	t.mu.Lock()
	t.refresh[refreshToken] = refreshRecord{userID: user.ID, expiresAt: issuedAt.Add(t.refreshExpiry)}
	t.mu.Unlock()

	return models.AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Rotate exchanges a valid refresh token for a new pair, invalidating the
// old one.
func (t *TokenService) Rotate(refreshToken string, user models.StudentUser) (models.AuthTokens, error) {
	t.mu.Lock()
	record, ok := t.refresh[refreshToken]
	if ok {
		delete(t.refresh, refreshToken)
	}
	t.mu.Unlock()

	if !ok {
		return models.AuthTokens{}, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token not found")
	}
	if t.now().UTC().After(record.expiresAt) {
		return models.AuthTokens{}, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is expired")
	}

	return t.Issue(user)
}

// Revoke drops a refresh token on logout.
func (t *TokenService) Revoke(refreshToken string) {
	t.mu.Lock()
	delete(t.refresh, refreshToken)
	t.mu.Unlock()
}

// Validate parses and verifies an access token.
func (t *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now().UTC() }))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
