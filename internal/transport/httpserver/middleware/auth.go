package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"softdesk-go/internal/auth"
	"softdesk-go/internal/domain/access"
)

type contextKey int

const identityKey contextKey = iota

// JWTAuth resolves the Authorization bearer token into an identity before any
// handler runs. Everything behind it can assume a caller.
type JWTAuth struct {
	tokens *auth.Issuer
}

func NewJWTAuth(tokens *auth.Issuer) *JWTAuth {
	return &JWTAuth{tokens: tokens}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.Parse(token, auth.TokenTypeAccess)
		if err != nil {
			unauthorized(w)
			return
		}

		identity := access.Identity{
			UserID:    claims.Subject,
			Superuser: claims.Superuser,
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    "invalid_token",
			"message": "invalid token",
		},
	})
}

func WithIdentity(ctx context.Context, identity access.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (access.Identity, bool) {
	value := ctx.Value(identityKey)
	identity, ok := value.(access.Identity)
	if !ok || identity.UserID == "" {
		return access.Identity{}, false
	}
	return identity, true
}
