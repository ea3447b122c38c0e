package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: remote, sqlite, or memory
	DataBackend string

	// Remote row-store
	RowStoreEndpoint   string
	RowStoreProjectID  string
	RowStoreDatabaseID string
	RowStoreAPIKey     string

	// Identity service
	IdentityEndpoint    string
	IdentityProjectID   string
	RecoveryRedirectURL string

	// Local sqlite backend
	SQLiteDBPath string

	// AMQP (transaction events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	// AggregationTZ controls the zone used for YYYY-MM bucketing. "Local"
	// keeps the process zone; moving this to a fixed zone shifts bucket
	// boundaries for users elsewhere, so it is configuration, not a default
	// of UTC.
	AggregationTZ    string
	SnapshotCacheTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8082"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),

		RowStoreEndpoint:   getEnv("ROWSTORE_ENDPOINT", ""),
		RowStoreProjectID:  getEnv("ROWSTORE_PROJECT_ID", ""),
		RowStoreDatabaseID: getEnv("ROWSTORE_DATABASE_ID", ""),
		RowStoreAPIKey:     getEnv("ROWSTORE_API_KEY", ""),

		IdentityEndpoint:    getEnv("IDENTITY_ENDPOINT", ""),
		IdentityProjectID:   getEnv("IDENTITY_PROJECT_ID", ""),
		RecoveryRedirectURL: getEnv("RECOVERY_REDIRECT_URL", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/smartspend.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "smartspend"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		AggregationTZ:    getEnv("AGGREGATION_TZ", "Local"),
		SnapshotCacheTTL: getEnvDuration("SNAPSHOT_CACHE_TTL", 30*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"remote", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate remote row-store configuration if backend is remote
	if c.DataBackend == "remote" {
		if c.RowStoreEndpoint == "" {
			errors = append(errors, "row-store endpoint is required when using remote backend")
		} else if parsedURL, err := url.Parse(c.RowStoreEndpoint); err != nil {
			errors = append(errors, fmt.Sprintf("invalid row-store endpoint '%s': %v", c.RowStoreEndpoint, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid row-store endpoint scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.RowStoreProjectID == "" {
			errors = append(errors, "row-store project id is required when using remote backend")
		}
		if c.RowStoreDatabaseID == "" {
			errors = append(errors, "row-store database id is required when using remote backend")
		}
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Identity service follows the row-store for the remote backend; the
	// local backends fall back to the in-process identity when unset.
	if c.IdentityEndpoint != "" {
		if parsedURL, err := url.Parse(c.IdentityEndpoint); err != nil {
			errors = append(errors, fmt.Sprintf("invalid identity endpoint '%s': %v", c.IdentityEndpoint, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid identity endpoint scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.IdentityProjectID == "" {
			errors = append(errors, "identity project id is required when an identity endpoint is provided")
		}
	} else if c.DataBackend == "remote" {
		errors = append(errors, "identity endpoint is required when using remote backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate aggregation time zone
	if _, err := c.AggregationLocation(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid aggregation time zone '%s': %v", c.AggregationTZ, err))
	}

	if c.SnapshotCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must not be negative", c.SnapshotCacheTTL))
	} else if c.SnapshotCacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must be at most 1 hour", c.SnapshotCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AggregationLocation resolves AggregationTZ to a concrete location.
func (c *Config) AggregationLocation() (*time.Location, error) {
	if c.AggregationTZ == "" || strings.EqualFold(c.AggregationTZ, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.AggregationTZ)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
