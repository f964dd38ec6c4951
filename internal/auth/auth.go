// Package auth resolves the calling user from a bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/YJlang/gacha/internal/config"
)

var (
	// ErrMissingToken means no bearer token was sent.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken means the token failed verification or carries no usable subject.
	ErrInvalidToken = errors.New("invalid token")
)

type contextKey struct{}

// WithUserID stores the caller identity in ctx
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFrom returns the caller identity stored in ctx
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}

// Verifier checks HS256 tokens whose subject is the numeric user id
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier from config
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// ParseHeader extracts and verifies the token in an Authorization header value
func (v *Verifier) ParseHeader(header string) (int64, error) {
	if header == "" {
		return 0, ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return v.Verify(strings.TrimSpace(parts[1]))
}

// Verify validates a token and returns its user id
func (v *Verifier) Verify(tokenString string) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}
	return userID, nil
}

// IssueToken signs a token for userID. Used by tooling and tests; the service never issues tokens.
func IssueToken(cfg config.AuthConfig, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
