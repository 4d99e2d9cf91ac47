package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevelopmentSecret is used to sign tokens when JWT_SECRET is not set and
// gin runs in debug mode.
const DevelopmentSecret = "development-secret-do-not-use-in-production"

type Config struct {
	// HTTP server
	APIURL  *url.URL
	Port    string
	GinMode string

	LogFormat string

	// Database. PostgreSQL is used when DBHost is set, sqlite otherwise
	DataDir    string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string

	// Authentication
	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowOrigins []string
	EnablePprof      bool

	// Events are published when AMQPURL is set
	AMQPURL      string
	AMQPExchange string

	// Glob patterns for email addresses that can be invited to budgets.
	// Empty means every address is allowed.
	InviteEmailPatterns []string

	rawAPIURL string
}

// LoadDotenv reads a .env file in the working directory if there is one.
// Variables that are already set in the environment are not overwritten.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}

	return nil
}

// Load reads the configuration from the environment.
func Load() Config {
	c := Config{
		rawAPIURL: os.Getenv("API_URL"),
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		DataDir:    getEnv("DATA_DIR", "data"),
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget.events"),

		InviteEmailPatterns: strings.Fields(os.Getenv("INVITE_EMAIL_PATTERNS")),
	}

	if c.rawAPIURL != "" {
		// Parse errors are reported by Validate
		c.APIURL, _ = url.Parse(strings.TrimSuffix(c.rawAPIURL, "/"))
	}

	if c.JWTSecret == "" && c.GinMode == "debug" {
		c.JWTSecret = DevelopmentSecret
	}

	return c
}

// Validate validates the configuration and returns an error if invalid.
// All problems are reported at once.
func (c Config) Validate() error {
	var errors []string

	if c.rawAPIURL == "" {
		errors = append(errors, "API_URL must be set. It is the externally reachable URL of the API")
	} else if c.APIURL == nil || c.APIURL.Scheme == "" || c.APIURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", c.rawAPIURL))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errors = append(errors, fmt.Sprintf("invalid GIN_MODE '%s': must be one of debug, release, test", c.GinMode))
	}

	if c.DBHost == "" && c.DataDir == "" {
		errors = append(errors, "DATA_DIR cannot be empty when using the sqlite database")
	}

	if c.DBHost != "" && (c.DBUser == "" || c.DBName == "") {
		errors = append(errors, "DB_USER and DB_NAME must be set when DB_HOST is set")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	}

	if c.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT_TTL %v: must be at least one minute", c.JWTTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SQLitePath returns the path of the sqlite database file.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "gorm.db")
}

// PostgresDSN returns the connection string for PostgreSQL.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s", c.DBHost, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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
