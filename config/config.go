package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage drivers understood by ConnectDB.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV"      envDefault:"development"`
		Port        string `env:"PORT"         envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:8081"`
		LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
		SeedMatches bool   `env:"SEED_MATCHES" envDefault:"true"`
	}
	Storage struct {
		Driver     string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
		SQLitePath string `env:"SQLITE_PATH"`
		Host       string `env:"DB_HOST"     envDefault:"localhost"`
		Port       string `env:"DB_PORT"     envDefault:"5432"`
		User       string `env:"DB_USER"     envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD" envDefault:"password"`
		Name       string `env:"DB_NAME"     envDefault:"futsapp"`
		SSLMode    string `env:"DB_SSLMODE"  envDefault:"disable"`
	}
	Directions struct {
		BaseURL    string        `env:"DIRECTIONS_BASE_URL"    envDefault:"https://router.project-osrm.org"`
		Timeout    time.Duration `env:"DIRECTIONS_TIMEOUT"     envDefault:"10s"`
		MaxRetries int           `env:"DIRECTIONS_MAX_RETRIES" envDefault:"1"`
	}
	Geocoder struct {
		BaseURL   string        `env:"GEOCODER_BASE_URL"   envDefault:"https://nominatim.openstreetmap.org"`
		UserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"futsapp/1.0"`
		Timeout   time.Duration `env:"GEOCODER_TIMEOUT"    envDefault:"10s"`
	}
	Venues struct {
		File string `env:"VENUES_FILE"`
	}
}

var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from environment variables into the Config struct.
// A missing .env file is not an error.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on system environment variables")
	}

	cfg := &Config{}

	// --- App Configuration ---
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:8081")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")

	var err error
	cfg.App.SeedMatches, err = getEnvAsBool("SEED_MATCHES", true)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_MATCHES: %w", err)
	}

	// --- Storage Configuration ---
	cfg.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite))
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", defaultSQLitePath())
	cfg.Storage.Host = getEnv("DB_HOST", "localhost")
	cfg.Storage.Port = getEnv("DB_PORT", "5432")
	cfg.Storage.User = getEnv("DB_USER", "postgres")
	cfg.Storage.Password = getEnv("DB_PASSWORD", "password")
	cfg.Storage.Name = getEnv("DB_NAME", "futsapp")
	cfg.Storage.SSLMode = getEnv("DB_SSLMODE", "disable")

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: expected sqlite, postgres or memory", cfg.Storage.Driver)
	}

	// --- Directions Configuration ---
	cfg.Directions.BaseURL = strings.TrimRight(getEnv("DIRECTIONS_BASE_URL", "https://router.project-osrm.org"), "/")
	cfg.Directions.Timeout, err = getEnvAsDuration("DIRECTIONS_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTIONS_TIMEOUT: %w", err)
	}
	cfg.Directions.MaxRetries, err = getEnvAsInt("DIRECTIONS_MAX_RETRIES", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTIONS_MAX_RETRIES: %w", err)
	}
	if cfg.Directions.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid DIRECTIONS_MAX_RETRIES: must not be negative")
	}

	// --- Geocoder Configuration ---
	cfg.Geocoder.BaseURL = strings.TrimRight(getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"), "/")
	cfg.Geocoder.UserAgent = getEnv("GEOCODER_USER_AGENT", "futsapp/1.0")
	cfg.Geocoder.Timeout, err = getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODER_TIMEOUT: %w", err)
	}

	cfg.Venues.File = getEnv("VENUES_FILE", "")

	if cfg.Storage.Driver == DriverPostgres && cfg.Storage.Password == "password" && cfg.App.Env == "production" {
		log.Warn().Msg("Using default DB password in production. Please set DB_PASSWORD environment variable.")
	}

	appConfig = cfg
	return cfg, nil
}

// ConnectDB opens the gorm connection for the configured storage driver.
// The memory driver has no database and returns nil.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case DriverMemory:
		return nil, nil
	case DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Storage.Host,
			cfg.Storage.User,
			cfg.Storage.Password,
			cfg.Storage.Name,
			cfg.Storage.Port,
			cfg.Storage.SSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(cfg.Storage.SQLitePath)
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Storage.Driver == DriverSQLite {
		// sqlite allows one writer; a single connection avoids SQLITE_BUSY under the persister.
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", cfg.Storage.Driver).Msg("Connected to storage")
	return gormDB, nil
}

// Initialize loads the configuration once and configures logging.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg
		SetupLogger(*appConfig)
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
// It exits if Initialize has not been called.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal().Msg("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "futsapp", "futsapp.db")
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected boolean, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected duration, got '%s'", key, valueStr)
	}
	return value, nil
}
