package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yzahrani/splitmate/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserUIDKey is the context key for the authenticated user's identifier
	UserUIDKey ContextKey = "user_uid"
)

// Authenticator validates bearer tokens issued by the identity provider and
// places the stable user identifier on the request context. Every ledger
// operation downstream takes the uid as an explicit parameter; nothing reads
// identity from globals.
type Authenticator struct {
	secret  []byte
	devMode bool
}

// NewAuthenticator creates an Authenticator. When devMode is true, requests
// may set X-Dev-User-UID instead of presenting a token.
func NewAuthenticator(secret string, devMode bool) *Authenticator {
	return &Authenticator{secret: []byte(secret), devMode: devMode}
}

// Middleware authenticates the request and injects the user uid into context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.devMode {
			if uid := r.Header.Get("X-Dev-User-UID"); uid != "" {
				next.ServeHTTP(w, r.WithContext(WithUserUID(r.Context(), uid)))
				return
			}
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		uid, err := a.validateToken(parts[1])
		if err != nil || uid == "" {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserUID(r.Context(), uid)))
	})
}

// validateToken parses the HS256 token and returns its subject claim.
func (a *Authenticator) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}

// WithUserUID returns a context carrying the given user identifier.
func WithUserUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserUIDKey, uid)
}

// GetUserUID extracts the authenticated user's identifier from the context.
func GetUserUID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}
