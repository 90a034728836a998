package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/sahyog/pkg/auth"
	"github.com/shashiranjanraj/sahyog/pkg/cache"
	"github.com/shashiranjanraj/sahyog/pkg/response"
)

// claimsKey is the unexported context key for the authenticated claims.
type claimsKey struct{}

// ClaimsFromCtx returns the authenticated caller's claims, if any.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// blacklistKey is the Redis key holding a revoked token's jti.
func blacklistKey(jti string) string { return "auth:revoked:" + jti }

// RevokeToken blacklists a token's jti for the remainder of its lifetime.
// Called by the logout handler.
func RevokeToken(ctx context.Context, blacklist *cache.Cache, claims *auth.Claims) error {
	if blacklist == nil || claims.ID == "" {
		return nil
	}
	ttl := auth.TokenTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	}
	return blacklist.Set(ctx, blacklistKey(claims.ID), true, ttl)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func resolve(r *http.Request, blacklist *cache.Cache) (*auth.Claims, bool) {
	token := bearerToken(r)
	if token == "" {
		return nil, false
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, false
	}

	if blacklist != nil && claims.ID != "" && blacklist.Exists(r.Context(), blacklistKey(claims.ID)) {
		return nil, false
	}

	return claims, true
}

// Auth requires a valid, non-revoked bearer token and stores its claims in
// the request context. blacklist may be nil (revocation disabled).
func Auth(blacklist *cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolve(r, blacklist)
			if !ok {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches claims when a valid token is present but lets the
// request through either way. Used by donation submission, which permits
// anonymous callers.
func OptionalAuth(blacklist *cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := resolve(r, blacklist); ok {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}
