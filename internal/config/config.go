package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string
	Port           string
	RealtimePort   string
	AllowedOrigins string
	Database       DatabaseConfig
	JWT            JWTConfig
	Cookie         CookieConfig
	Donation       DonationConfig
	Storage        StorageConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	DBName   string `env:"DB_NAME" envDefault:"foodbridge"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// DonationConfig holds claim and scheduling rules
type DonationConfig struct {
	DefaultIntakeCapacity  float64
	RequireNGOVerification bool
	IntakeResetSchedule    string
}

// StorageConfig holds image upload configuration
type StorageConfig struct {
	Bucket          string
	CredentialsFile string
	MaxUploadMB     int
}

// settings are read without a mode prefix
type settings struct {
	AppMode                string  `env:"APP_MODE" envDefault:"dev"`
	Port                   string  `env:"PORT" envDefault:"3000"`
	RealtimePort           string  `env:"REALTIME_PORT" envDefault:"3001"`
	AllowedOrigins         string  `env:"ALLOWED_ORIGINS"`
	AccessTokenMins        int     `env:"ACCESS_TOKEN_MINUTES" envDefault:"15"`
	RefreshTokenDays       int     `env:"REFRESH_TOKEN_DAYS" envDefault:"7"`
	CookieSameSite         string  `env:"COOKIE_SAMESITE" envDefault:"lax"`
	CookieDomain           string  `env:"COOKIE_DOMAIN"`
	DefaultIntakeCapacity  float64 `env:"DEFAULT_INTAKE_CAPACITY" envDefault:"100"`
	RequireNGOVerification bool    `env:"REQUIRE_NGO_VERIFICATION" envDefault:"false"`
	IntakeResetSchedule    string  `env:"INTAKE_RESET_SCHEDULE" envDefault:"0 0 * * *"`
	GCSCredentialsFile     string  `env:"GCS_CREDENTIALS_FILE"`
	MaxUploadMB            int     `env:"MAX_UPLOAD_MB" envDefault:"5"`
}

// scoped are read with the DEV_ or PROD_ prefix
type scoped struct {
	Database         DatabaseConfig
	JWTSecret        string `env:"JWT_SECRET" envDefault:"default_secret"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET" envDefault:"default_refresh_secret"`
	CookieSecure     bool   `env:"COOKIE_SECURE" envDefault:"false"`
	GCSBucket        string `env:"GCS_BUCKET"`
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// Parse builds the config from the current environment
func Parse() (*Config, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// trim spaces for Windows compatibility
	s.AppMode = strings.TrimSpace(s.AppMode)
	if s.AppMode != "dev" && s.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", s.AppMode)
	}

	var sc scoped
	if err := env.ParseWithOptions(&sc, env.Options{Prefix: modePrefix(s.AppMode)}); err != nil {
		return nil, fmt.Errorf("parse %s env: %w", s.AppMode, err)
	}

	if s.DefaultIntakeCapacity <= 0 {
		return nil, fmt.Errorf("DEFAULT_INTAKE_CAPACITY must be positive, got %v", s.DefaultIntakeCapacity)
	}

	return &Config{
		AppMode:        s.AppMode,
		Port:           s.Port,
		RealtimePort:   s.RealtimePort,
		AllowedOrigins: s.AllowedOrigins,
		Database:       sc.Database,
		JWT: JWTConfig{
			Secret:           sc.JWTSecret,
			RefreshSecret:    sc.JWTRefreshSecret,
			AccessTokenMins:  s.AccessTokenMins,
			RefreshTokenDays: s.RefreshTokenDays,
		},
		Cookie: CookieConfig{
			Secure:   sc.CookieSecure,
			SameSite: s.CookieSameSite,
			Domain:   s.CookieDomain,
		},
		Donation: DonationConfig{
			DefaultIntakeCapacity:  s.DefaultIntakeCapacity,
			RequireNGOVerification: s.RequireNGOVerification,
			IntakeResetSchedule:    s.IntakeResetSchedule,
		},
		Storage: StorageConfig{
			Bucket:          sc.GCSBucket,
			CredentialsFile: s.GCSCredentialsFile,
			MaxUploadMB:     s.MaxUploadMB,
		},
	}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://foodbridge.app"
	}
	return c.AllowedOrigins
}

// AccessTTL is the access token lifetime
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenMins) * time.Minute
}

// RefreshTTL is the refresh token lifetime
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenDays) * 24 * time.Hour
}

// MaxUploadBytes is the per-file image upload limit
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) << 20
}
