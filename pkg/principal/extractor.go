package principal

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the session cookie set by the login service.
const DefaultCookieName = "auth_token"

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(token), nil
}

// CookieTokenExtractor reads the named cookie.
func CookieTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrNoToken
		}
		return c.Value, nil
	}
}

// FirstOf tries extractors in order and returns the first token found.
func FirstOf(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			if token, err := ex(r); err == nil {
				return token, nil
			}
		}
		return "", ErrNoToken
	}
}
