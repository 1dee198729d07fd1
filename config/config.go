package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the resolved configuration shared by the backend and the client commands.
type Config struct {
	// Server settings
	ListenAddress  string
	ListenPort     string
	AllowedOrigins []string

	// Database settings
	DbFilePath   string
	SaveInterval time.Duration
	EnableBackup bool

	// Backend auth
	JwtSecret       string // The actual secret key
	JwtSecretFile   string // Path to the file containing the secret
	TokenLifetime   time.Duration
	BcryptCost      int
	RedisAddr       string // Enables the login rate limiter and the redis store
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Client settings
	Source              string // fixture, remote
	FixtureDir          string // Empty means the embedded fixtures
	APIURL              string
	HTTPTimeout         time.Duration
	Store               string // memory, file, sqlite, redis
	StorePath           string
	DurableRegistration bool

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	envPrefix = "EDUNOVA"

	defaultAddress         = "0.0.0.0"
	defaultPort            = "8080"
	defaultDbFile          = "./edunova-db.json" // Relative to working dir
	defaultSaveInterval    = 3 * time.Second
	defaultEnableBackup    = true
	defaultJwtKeyFile      = "./edunova.key" // Default file if we generate a key
	defaultTokenLifetime   = 24 * time.Hour
	defaultBcryptCost      = 12
	defaultLoginRateLimit  = 5
	defaultLoginRateWindow = time.Minute

	defaultSource      = "fixture"
	defaultAPIURL      = "http://localhost:8080"
	defaultHTTPTimeout = 10 * time.Second
	defaultStore       = "file"
	defaultFileStore   = "./edunova-store.json"
	defaultSQLiteStore = "./edunova-store.db"

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Valid values for the enumerated settings.
var (
	validSources = map[string]bool{"fixture": true, "remote": true}
	validStores  = map[string]bool{"memory": true, "file": true, "sqlite": true, "redis": true}
)

// RegisterFlags defines every configuration flag on fs. The same names, upper-cased
// with dashes turned into underscores and prefixed with EDUNOVA_, are read from the
// environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Optional config file (json, yaml, toml, env) (Env: EDUNOVA_CONFIG)")

	fs.String("address", defaultAddress, "Server listen address")
	fs.String("port", defaultPort, "Server listen port")
	fs.StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	fs.String("db-file", defaultDbFile, "Path to the JSON database file")
	fs.Duration("save-interval", defaultSaveInterval, "Debounce interval for saving the database")
	fs.Bool("enable-backup", defaultEnableBackup, "Keep a .bak copy of the database before saving")
	fs.String("jwt-secret-file", "", "Path to file containing the JWT secret key")
	fs.Duration("token-lifetime", defaultTokenLifetime, "Lifetime of issued access tokens")
	fs.String("redis-addr", "", "Redis address used for rate limiting and the redis store")
	fs.Int("login-rate-limit", defaultLoginRateLimit, "Max auth attempts per client IP per window (needs redis)")
	fs.Duration("login-rate-window", defaultLoginRateWindow, "Window for the auth rate limiter")

	fs.String("source", defaultSource, "Data source: fixture or remote")
	fs.String("fixture-dir", "", "Directory with accounts.json, documents.json and videos.json (default: embedded)")
	fs.String("api-url", defaultAPIURL, "Base URL of the backend when --source=remote")
	fs.Duration("http-timeout", defaultHTTPTimeout, "Timeout for backend requests")
	fs.String("store", defaultStore, "Session store: memory, file, sqlite or redis")
	fs.String("store-path", "", "Path of the file or sqlite store")
	fs.Bool("durable-registration", false, "Keep fixture registrations for the lifetime of the process")

	fs.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", defaultLogFormat, "Log format: console or json")
}

// Load resolves configuration from flags, environment variables, an optional
// config file and defaults, in that order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", file, err)
		}
	}

	cfg := &Config{
		ListenAddress:       v.GetString("address"),
		ListenPort:          v.GetString("port"),
		AllowedOrigins:      v.GetStringSlice("allowed-origins"),
		DbFilePath:          v.GetString("db-file"),
		SaveInterval:        v.GetDuration("save-interval"),
		EnableBackup:        v.GetBool("enable-backup"),
		JwtSecretFile:       v.GetString("jwt-secret-file"),
		TokenLifetime:       v.GetDuration("token-lifetime"),
		BcryptCost:          defaultBcryptCost,
		RedisAddr:           v.GetString("redis-addr"),
		LoginRateLimit:      v.GetInt("login-rate-limit"),
		LoginRateWindow:     v.GetDuration("login-rate-window"),
		Source:              strings.ToLower(v.GetString("source")),
		FixtureDir:          v.GetString("fixture-dir"),
		APIURL:              strings.TrimRight(v.GetString("api-url"), "/"),
		HTTPTimeout:         v.GetDuration("http-timeout"),
		Store:               strings.ToLower(v.GetString("store")),
		StorePath:           v.GetString("store-path"),
		DurableRegistration: v.GetBool("durable-registration"),
		LogLevel:            v.GetString("log-level"),
		LogFormat:           v.GetString("log-format"),
	}

	if !validSources[cfg.Source] {
		return nil, fmt.Errorf("invalid source '%s', expected 'fixture' or 'remote'", cfg.Source)
	}
	if !validStores[cfg.Store] {
		return nil, fmt.Errorf("invalid store '%s', expected 'memory', 'file', 'sqlite' or 'redis'", cfg.Store)
	}
	if cfg.Store == "redis" && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("store 'redis' requires --redis-addr")
	}
	if cfg.StorePath == "" {
		switch cfg.Store {
		case "file":
			cfg.StorePath = defaultFileStore
		case "sqlite":
			cfg.StorePath = defaultSQLiteStore
		}
	}
	if cfg.SaveInterval < 0 {
		cfg.SaveInterval = 0
	}

	// The backend database path must name a file.
	absDbPath, err := filepath.Abs(cfg.DbFilePath)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for db-file '%s': %w", cfg.DbFilePath, err)
	}
	cfg.DbFilePath = absDbPath

	fileInfo, err := os.Stat(cfg.DbFilePath)
	if err == nil && fileInfo.IsDir() {
		return nil, fmt.Errorf("database path '%s' points to a directory, not a file", cfg.DbFilePath)
	}

	return cfg, nil
}

// ResolveJwtSecret fills cfg.JwtSecret. Only the server needs a secret, so this is
// not part of Load.
// Priority: File (flag/env) > EDUNOVA_JWT_SECRET > default key file > generate.
func (cfg *Config) ResolveJwtSecret(logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. Explicit file path
	if cfg.JwtSecretFile != "" {
		secretBytes, err := os.ReadFile(cfg.JwtSecretFile)
		if err == nil {
			cfg.JwtSecret = strings.TrimSpace(string(secretBytes))
			if cfg.JwtSecret != "" {
				return fmt.Sprintf("File (%s)", cfg.JwtSecretFile), nil
			}
			logger.Warn("JWT secret file is empty, ignoring", zap.String("file", cfg.JwtSecretFile))
		} else {
			logger.Warn("failed to read JWT secret file, checking other sources", zap.String("file", cfg.JwtSecretFile), zap.Error(err))
		}
	}

	// 2. Environment variable
	if envSecret := strings.TrimSpace(os.Getenv(envPrefix + "_JWT_SECRET")); envSecret != "" {
		cfg.JwtSecret = envSecret
		return "Environment Variable (EDUNOVA_JWT_SECRET)", nil
	}

	// 3. Default key file
	secretBytes, err := os.ReadFile(defaultJwtKeyFile)
	if err == nil {
		cfg.JwtSecret = strings.TrimSpace(string(secretBytes))
		if cfg.JwtSecret != "" {
			return fmt.Sprintf("Default Key File (%s)", defaultJwtKeyFile), nil
		}
		logger.Warn("default JWT key file is empty, generating a new secret", zap.String("file", defaultJwtKeyFile))
	} else if !os.IsNotExist(err) {
		logger.Warn("failed to read default JWT key file, generating a new secret", zap.String("file", defaultJwtKeyFile), zap.Error(err))
	}

	// 4. Generate and try to save
	newSecret, err := generateRandomKey(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.JwtSecret = newSecret
	if err := os.WriteFile(defaultJwtKeyFile, []byte(newSecret), 0600); err != nil {
		logger.Warn("failed to save generated JWT secret, using it for this run only", zap.String("file", defaultJwtKeyFile), zap.Error(err))
		return "Generated (In Memory)", nil
	}
	return fmt.Sprintf("Generated & Saved (%s)", defaultJwtKeyFile), nil
}

// Log prints the resolved server configuration.
func (cfg *Config) Log(logger *zap.Logger, secretSource string) {
	logger.Info("configuration",
		zap.String("address", cfg.ListenAddress),
		zap.String("port", cfg.ListenPort),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
		zap.String("db_file", cfg.DbFilePath),
		zap.Duration("save_interval", cfg.SaveInterval),
		zap.Bool("backup", cfg.EnableBackup),
		zap.String("jwt_secret_source", secretSource),
		zap.Duration("token_lifetime", cfg.TokenLifetime),
		zap.Int("bcrypt_cost", cfg.BcryptCost),
		zap.Bool("rate_limit", cfg.RedisAddr != ""),
		zap.String("fixture_dir", cfg.FixtureDir),
	)
}

// generateRandomKey returns length random bytes, hex encoded.
func generateRandomKey(length int) (string, error) {
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(key), nil
}
