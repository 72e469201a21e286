package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "devevent"

// TokenManager issues HS256 session tokens and verifies them. When a JWKS URL
// is configured it also accepts asymmetric tokens signed by that key set.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	jwks   *keyfunc.JWKS
}

func NewTokenManager(ctx context.Context, secret string, ttl time.Duration, jwksURL string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl}
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			Ctx:             ctx,
			RefreshInterval: time.Hour,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		tm.jwks = jwks
	}
	return tm, nil
}

// Issue signs a session token for the given user.
func (tm *TokenManager) Issue(userID, email, name, role string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(tm.ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses and verifies tokenStr.
func (tm *TokenManager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, tm.keyFor, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (tm *TokenManager) keyFor(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return tm.secret, nil
	}
	if tm.jwks != nil {
		return tm.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
}

// Close stops the background JWKS refresh, if any.
func (tm *TokenManager) Close() {
	if tm.jwks != nil {
		tm.jwks.EndBackground()
	}
}
