// Package config loads the service configuration from environment variables,
// optionally layered over a YAML file. Every problem found while loading is
// collected and reported together so a bad deployment fails once, loudly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// StoreDriverPostgres selects the PostgreSQL-backed store.
	StoreDriverPostgres = "postgres"
	// StoreDriverMemory selects the in-process store, for development and demos.
	StoreDriverMemory = "memory"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// StoreConfig selects and configures the persistent store.
type StoreConfig struct {
	Driver   string
	Postgres *PoolConfig // nil when Driver is memory
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret string // Secret key for signing JWTs
	// TokenDuration is the lifetime written into the exp claim.
	// Zero issues tokens without an exp claim.
	TokenDuration time.Duration
	// BcryptCost is the bcrypt work factor. It is required so that every
	// deployment chooses it explicitly.
	BcryptCost int
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	// ExposeErrorDetails adds underlying error text to error responses.
	// Meant for local debugging only.
	ExposeErrorDetails bool
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Store  *StoreConfig
	Auth   *AuthConfig
	Server *ServerConfig
	Log    *LogConfig
}

// source resolves configuration keys: the environment wins, then the file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	value, exists := s.file[key]
	return value, exists
}

// required returns the value of a mandatory key, recording an error if unset.
func (s source) required(key string, errors *[]string) string {
	value, exists := s.lookup(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func (s source) optional(key string, defaultValue string) string {
	if value, exists := s.lookup(key); exists {
		return value
	}
	return defaultValue
}

func (s source) optionalInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := s.lookup(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func (s source) optionalBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := s.lookup(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// `time.ParseDuration` expects a string like "15m", "1h30s".
func (s source) optionalDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := s.lookup(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool between 5 and 100 connections.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig reads configuration from the environment, using the YAML file
// named by CONFIG_FILE (if any) for keys the environment leaves unset.
func LoadConfig() (*AppConfig, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load reads configuration from the environment layered over the YAML file at
// path. An empty path skips the file.
func Load(path string) (*AppConfig, error) {
	src := source{}
	if path != "" {
		file, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}
	return load(src)
}

func load(src source) (*AppConfig, error) {
	var errors []string

	// Store
	driver := strings.ToLower(src.optional("STORE_DRIVER", StoreDriverPostgres))
	storeConfig := &StoreConfig{Driver: driver}
	switch driver {
	case StoreDriverPostgres:
		storeConfig.Postgres = &PoolConfig{
			User:     src.required("DB_USER", &errors),
			Password: src.required("DB_PASSWORD", &errors),
			DBName:   src.required("DB_NAME", &errors),
			Host:     src.optional("DB_HOST", "localhost"),
			Port:     src.optionalInt("DB_PORT", 5432, &errors),
			MaxSize:  clampPoolSize(src.optionalInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors),
		}
	case StoreDriverMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid value for STORE_DRIVER: expected %q or %q, got '%s'", StoreDriverPostgres, StoreDriverMemory, driver))
	}

	// Auth
	authConfig := &AuthConfig{
		JWTSecret:     src.required("JWT_SECRET", &errors),
		TokenDuration: src.optionalDuration("JWT_TOKEN_DURATION", 24*time.Hour, &errors),
	}
	if authConfig.TokenDuration < 0 {
		errors = append(errors, "JWT_TOKEN_DURATION must not be negative")
	}
	if costStr := src.required("BCRYPT_COST", &errors); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid value for BCRYPT_COST: expected integer, got '%s': %v", costStr, err))
		}
		authConfig.BcryptCost = cost
	}

	// Server
	serverConfig := &ServerConfig{
		Port:               src.optional("PORT", "5001"),
		RequestTimeout:     src.optionalDuration("REQUEST_TIMEOUT", 60*time.Second, &errors),
		ExposeErrorDetails: src.optionalBool("EXPOSE_ERROR_DETAILS", false, &errors),
	}

	logConfig := &LogConfig{
		Level:  strings.ToLower(src.optional("LOG_LEVEL", "info")),
		Format: strings.ToLower(src.optional("LOG_FORMAT", "json")),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Store:  storeConfig,
		Auth:   authConfig,
		Server: serverConfig,
		Log:    logConfig,
	}, nil
}

// fileConfig mirrors the environment keys as a nested YAML document.
type fileConfig struct {
	Store struct {
		Driver string `yaml:"driver"`
	} `yaml:"store"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		PoolSize string `yaml:"pool_size"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenDuration string `yaml:"token_duration"`
		BcryptCost    string `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Server struct {
		Port               string `yaml:"port"`
		RequestTimeout     string `yaml:"request_timeout"`
		ExposeErrorDetails string `yaml:"expose_error_details"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// loadFile parses the YAML file and flattens it onto environment key names.
func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := map[string]string{
		"STORE_DRIVER":         fc.Store.Driver,
		"DB_HOST":              fc.Database.Host,
		"DB_PORT":              fc.Database.Port,
		"DB_USER":              fc.Database.User,
		"DB_PASSWORD":          fc.Database.Password,
		"DB_NAME":              fc.Database.Name,
		"DB_POOL_SIZE":         fc.Database.PoolSize,
		"JWT_SECRET":           fc.Auth.JWTSecret,
		"JWT_TOKEN_DURATION":   fc.Auth.TokenDuration,
		"BCRYPT_COST":          fc.Auth.BcryptCost,
		"PORT":                 fc.Server.Port,
		"REQUEST_TIMEOUT":      fc.Server.RequestTimeout,
		"EXPOSE_ERROR_DETAILS": fc.Server.ExposeErrorDetails,
		"LOG_LEVEL":            fc.Log.Level,
		"LOG_FORMAT":           fc.Log.Format,
	}
	for key, value := range values {
		if value == "" {
			delete(values, key)
		}
	}
	return values, nil
}
