package principal

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/intelgrid/dashguard/pkg/rbac"
)

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Resolver verifies session tokens and maps them to principals.
type Resolver struct {
	secret    []byte
	issuer    string
	extractor TokenExtractorFunc
	now       func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithExtractor replaces the default bearer-then-cookie lookup.
func WithExtractor(ex TokenExtractorFunc) ResolverOption {
	return func(r *Resolver) {
		if ex != nil {
			r.extractor = ex
		}
	}
}

// WithCookieName changes the session cookie read after the bearer header.
func WithCookieName(name string) ResolverOption {
	return func(r *Resolver) {
		if name != "" {
			r.extractor = FirstOf(BearerTokenExtractor, CookieTokenExtractor(name))
		}
	}
}

// WithIssuer requires tokens to carry iss and stamps it on issued tokens.
func WithIssuer(iss string) ResolverOption {
	return func(r *Resolver) { r.issuer = iss }
}

// WithClock overrides the time source used when issuing tokens.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver returns a Resolver for HS256 tokens signed with secret.
func NewResolver(secret []byte, opts ...ResolverOption) (*Resolver, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	r := &Resolver{
		secret:    append([]byte(nil), secret...),
		extractor: FirstOf(BearerTokenExtractor, CookieTokenExtractor(DefaultCookieName)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve extracts and verifies the request's token.
func (r *Resolver) Resolve(req *http.Request) (Principal, error) {
	token, err := r.extractor(req)
	if err != nil {
		return Anonymous(), err
	}
	return r.Verify(token)
}

// Verify checks the token signature and registered claims. An unknown role
// claim resolves to the anonymous role without failing verification.
func (r *Resolver) Verify(token string) (Principal, error) {
	if token == "" {
		return Anonymous(), ErrNoToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return r.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Anonymous(), errors.Join(ErrInvalidToken, ErrExpiredToken)
	case err != nil:
		return Anonymous(), errors.Join(ErrInvalidToken, err)
	case !parsed.Valid:
		return Anonymous(), ErrInvalidToken
	}

	if claims.Subject == "" {
		return Anonymous(), fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if r.issuer != "" && !claims.VerifyIssuer(r.issuer, true) {
		return Anonymous(), fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	role, err := rbac.ParseRole(claims.Role)
	if err != nil {
		role = rbac.RoleAnonymous
	}
	return Principal{Subject: claims.Subject, Role: role}, nil
}

// Issue signs a token for subject with role that expires after ttl.
func (r *Resolver) Issue(subject string, role rbac.Role, ttl time.Duration) (string, error) {
	now := r.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
