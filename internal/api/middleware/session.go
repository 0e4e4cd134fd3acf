package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/wordquiz/internal/model"
)

// Cookie names, one namespace per principal kind
const (
	PlayerCookieName = "session"
	AdminCookieName  = "admin_session"
)

// CookieName returns the cookie that carries sessions of the given kind
func CookieName(kind model.PrincipalKind) string {
	if kind == model.KindAdmin {
		return AdminCookieName
	}
	return PlayerCookieName
}

// SetSessionCookie stores a freshly issued token for the given kind
func SetSessionCookie(w http.ResponseWriter, r *http.Request, kind model.PrincipalKind, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with one that expires immediately
func ClearSessionCookie(w http.ResponseWriter, r *http.Request, kind model.PrincipalKind) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // sent as Max-Age=0
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// isHTTPS reports whether the client connection is HTTPS, directly or behind a proxy
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
