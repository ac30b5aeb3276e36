package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvHTTPAddr         = "HTTP_ADDR"
	EnvDatabaseDSN      = "DATABASE_DSN"
	EnvSecretKey        = "SECRET_KEY"
	EnvSigningAlgorithm = "SIGNING_ALGORITHM"
	EnvAccessTokenTTL   = "ACCESS_TOKEN_TTL"
	EnvPasswordHashCost = "PASSWORD_HASH_COST"
	EnvLogLevel         = "LOG_LEVEL"
	EnvShutdownTimeout  = "SHUTDOWN_TIMEOUT"
)

// dotEnvFile is loaded before reading the environment when it exists.
var dotEnvFile = ".env"

// parseEnv overlays config with environment variables. Variables from
// dotEnvFile are loaded first but never override ones already set in the
// process environment. Values that do not parse are ignored.
func parseEnv(config *Config) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvSigningAlgorithm); ok {
		config.SigningAlgorithm = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if d, ok := lookupDuration(EnvAccessTokenTTL); ok {
		config.AccessTokenValidityDuration = d
	}
	if d, ok := lookupDuration(EnvShutdownTimeout); ok {
		config.ShutdownTimeout = d
	}
	if v, ok := os.LookupEnv(EnvPasswordHashCost); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.PasswordHashCost = n
		}
	}
}

func lookupDuration(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
