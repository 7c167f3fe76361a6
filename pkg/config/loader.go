package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option configures a Load call.
type Option func(*options)

type options struct {
	envFiles    []string
	prefix      string
	environment map[string]string
}

// WithEnvFiles loads the given .env files before parsing. Unlike the default
// ".env", missing files are reported as errors. Existing process variables win.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, files...) }
}

// WithPrefix prepends prefix to every env tag, e.g. "DASHGUARD_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment parses from m instead of the process environment.
// No .env files are read in this mode.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) { o.environment = m }
}

// Load parses environment variables into v using `env` and `envDefault` struct tags.
//
// Example:
//
//	type Config struct {
//		PolicyFile  string `env:"POLICY_FILE"`
//		TokenSecret string `env:"AUTH_TOKEN_SECRET,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	envOpts := env.Options{Prefix: o.prefix}
	if o.environment != nil {
		envOpts.Environment = o.environment
	} else {
		if err := loadEnvFiles(o.envFiles); err != nil {
			return err
		}
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		// The default .env is optional.
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}
