package principal

import "errors"

var (
	ErrMissingSecret           = errors.New("principal.missing_secret")
	ErrNoToken                 = errors.New("principal.no_token")
	ErrInvalidToken            = errors.New("principal.invalid_token")
	ErrExpiredToken            = errors.New("principal.token_expired")
	ErrUnexpectedSigningMethod = errors.New("principal.unexpected_signing_method")
)
