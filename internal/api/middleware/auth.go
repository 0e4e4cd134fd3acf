package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/wordquiz/internal/api/apierr"
	"github.com/mcoot/wordquiz/internal/model"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Resolver turns a raw session token into a principal; it never fails
type Resolver interface {
	Resolve(ctx context.Context, token string) model.Principal
}

// Resolve attaches the request's principal to its context. Candidate tokens
// are tried in order (Authorization header, admin cookie, player cookie) and
// the first one that resolves to an account wins. Requests with no usable
// token carry Anonymous.
func Resolve(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var principal model.Principal = model.Anonymous{}
			for _, token := range candidateTokens(r) {
				p := resolver.Resolve(r.Context(), token)
				if p.Kind() != model.KindAnonymous {
					principal = p
					break
				}
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// Require only lets requests through whose principal has the given kind.
// Anonymous requests get 401, authenticated requests of another kind get 403.
func Require(kind model.PrincipalKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorize(GetPrincipal(r.Context()), kind); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePlayer is Require(model.KindPlayer)
func RequirePlayer(next http.Handler) http.Handler {
	return Require(model.KindPlayer)(next)
}

// RequireAdmin is Require(model.KindAdmin)
func RequireAdmin(next http.Handler) http.Handler {
	return Require(model.KindAdmin)(next)
}

func authorize(principal model.Principal, required model.PrincipalKind) error {
	switch p := principal.(type) {
	case model.Anonymous:
		return apierr.NewUnauthorizedError()
	case model.PlayerPrincipal:
		if !p.IsActive {
			return apierr.NewUnauthorizedError()
		}
		if required != model.KindPlayer {
			return apierr.NewForbiddenError()
		}
	case model.AdminPrincipal:
		if required != model.KindAdmin {
			return apierr.NewForbiddenError()
		}
	default:
		return apierr.NewUnauthorizedError()
	}
	return nil
}

func candidateTokens(r *http.Request) []string {
	var tokens []string
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			tokens = append(tokens, token)
		}
	}
	for _, name := range []string{AdminCookieName, PlayerCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			tokens = append(tokens, cookie.Value)
		}
	}
	return tokens
}

// WithPrincipal returns a copy of ctx carrying principal
func WithPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// GetPrincipal returns the request's principal, or Anonymous when none was resolved
func GetPrincipal(ctx context.Context) model.Principal {
	if p, ok := ctx.Value(principalContextKey).(model.Principal); ok && p != nil {
		return p
	}
	return model.Anonymous{}
}

// MustGetPlayer returns the authenticated player or panics
func MustGetPlayer(ctx context.Context) model.PlayerPrincipal {
	p, ok := GetPrincipal(ctx).(model.PlayerPrincipal)
	if !ok {
		panic("no player in context - RequirePlayer not applied?")
	}
	return p
}

// MustGetAdmin returns the authenticated admin or panics
func MustGetAdmin(ctx context.Context) model.AdminPrincipal {
	a, ok := GetPrincipal(ctx).(model.AdminPrincipal)
	if !ok {
		panic("no admin in context - RequireAdmin not applied?")
	}
	return a
}
