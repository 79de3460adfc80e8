// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ErrJWTSecretMissing is returned when no signing secret is configured.
var ErrJWTSecretMissing = errors.New("the JWT_SECRET environment variable must be set")

// Config holds everything read from the environment at startup.
type Config struct {
	// DBConnectionString is the sqlite file path or DSN. Empty selects
	// the default data/mei.db.
	DBConnectionString string

	// UploadDir is the directory for uploaded document files.
	UploadDir string

	// JWTSecret signs the session tokens.
	JWTSecret string

	// JWTExpiry is the session token lifetime.
	JWTExpiry time.Duration

	// APIURL is the public base URL of the API, used for the docs.
	APIURL string

	// CORSAllowOrigins is the space separated origin list. Empty
	// disables CORS headers.
	CORSAllowOrigins string

	// EnablePprof mounts the profiling endpoints under /debug/pprof.
	EnablePprof bool
}

// Load reads an optional .env file and then the environment. It fails
// when a required value is missing or malformed.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	c := Config{
		DBConnectionString: os.Getenv("DB_CONNECTION_STRING"),
		UploadDir:          os.Getenv("UPLOAD_DIR"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiry:          24 * time.Hour,
		APIURL:             os.Getenv("API_URL"),
		CORSAllowOrigins:   os.Getenv("CORS_ALLOW_ORIGINS"),
	}

	if c.DBConnectionString == "" {
		c.DBConnectionString = "data/mei.db"
	}

	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}

	if c.JWTSecret == "" {
		return Config{}, ErrJWTSecretMissing
	}

	if hours := os.Getenv("JWT_EXPIRY_HOURS"); hours != "" {
		h, err := strconv.Atoi(hours)
		if err != nil || h < 1 {
			log.Warn().Str("JWT_EXPIRY_HOURS", hours).Msg("ignoring invalid token expiry, using 24 hours")
		} else {
			c.JWTExpiry = time.Duration(h) * time.Hour
		}
	}

	if enable := os.Getenv("ENABLE_PPROF"); enable != "" {
		c.EnablePprof, err = strconv.ParseBool(enable)
		if err != nil {
			log.Warn().Str("ENABLE_PPROF", enable).Msg("ignoring invalid pprof flag")
		}
	}

	return c, nil
}
