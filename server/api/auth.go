package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"gitlab.com/shar-workflow/iflowscan/common/ctxkey"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// AnonymousUser is the caller recorded when authentication is disabled.
const AnonymousUser = "anonymous"

// Auth checks HS256 bearer tokens presented to the API.
// An Auth without a secret accepts every caller.
type Auth struct {
	secret []byte
}

// NewAuth creates an authenticator for tokens signed with secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Enabled reports whether callers must present a token.
func (a *Auth) Enabled() bool {
	return len(a.secret) > 0
}

// authenticate validates an Authorization header value and records the caller in the context.
func (a *Auth) authenticate(ctx context.Context, authorization string) (context.Context, error) {
	if !a.Enabled() {
		return context.WithValue(ctx, ctxkey.APIUser, AnonymousUser), nil
	}
	raw, ok := strings.CutPrefix(strings.TrimSpace(authorization), "Bearer ")
	if !ok || raw == "" {
		return ctx, fmt.Errorf("authenticate: missing bearer token: %w", errors2.ErrApiAuthNFail)
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !tok.Valid {
		return ctx, fmt.Errorf("authenticate: %v: %w", err, errors2.ErrApiAuthNFail)
	}
	user := AnonymousUser
	if claims, ok := tok.Claims.(jwt.MapClaims); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			user = sub
		}
	}
	return context.WithValue(ctx, ctxkey.APIUser, user), nil
}

// IssueToken signs a bearer token for subject that expires after ttl.
func IssueToken(secret string, subject string, ttl time.Duration) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   subject,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// User returns the authenticated caller recorded in ctx.
func User(ctx context.Context) string {
	if u, ok := ctx.Value(ctxkey.APIUser).(string); ok {
		return u
	}
	return ""
}
