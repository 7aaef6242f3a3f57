// Package config loads application configuration from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// the default .env file is loaded once per process when present, then
// env.Parse populates any struct annotated with env field tags. Sentinel
// errors (ErrParsingConfig, ErrLoadingEnvFile, ErrNilPointer) compare
// with errors.Is.
//
// The package also defines the engine's own configuration structs
// (Engine, Webhook) so every component reads its tunables through the
// same mechanism.
package config
