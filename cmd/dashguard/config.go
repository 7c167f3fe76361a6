package main

import "github.com/intelgrid/dashguard/pkg/httpserver"

// Config is the service configuration, read from the environment and an
// optional .env file.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	AppName  string `env:"APP_NAME" envDefault:"dashguard"`
	LogLevel string `env:"LOG_LEVEL"`

	// PolicyFile is a YAML role table. Empty uses the built-in grants.
	PolicyFile string `env:"POLICY_FILE"`

	TokenSecret string `env:"AUTH_TOKEN_SECRET,required"`
	TokenIssuer string `env:"AUTH_TOKEN_ISSUER"`
	CookieName  string `env:"AUTH_COOKIE_NAME" envDefault:"auth_token"`
	LoginPath   string `env:"LOGIN_PATH" envDefault:"/auth/login"`

	TrustedProxyHeaders []string `env:"TRUSTED_PROXY_HEADERS" envSeparator:","`
	AuditCapacity       int      `env:"AUDIT_CAPACITY" envDefault:"10000"`

	HTTP httpserver.Config
}
