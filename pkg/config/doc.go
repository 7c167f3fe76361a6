// Package config loads service configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files. The default ".env" in the working
// directory is read when present; extra files can be requested with
// WithEnvFiles. Variables already set in the process are never overridden.
//
// Tests can bypass the process environment entirely with WithEnvironment.
package config
