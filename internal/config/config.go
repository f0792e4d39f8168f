package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CATCARE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "CATCARE_APP_ENV"
	EnvPort          = "CATCARE_APP_PORT"
	EnvTimezone      = "CATCARE_APP_TIMEZONE"
	EnvDBDSN         = "CATCARE_DB_DSN"
	EnvRedisURL      = "CATCARE_REDIS_URL"
	EnvJWTSecret     = "CATCARE_JWT_SECRET"
	EnvAuthDevMode   = "CATCARE_AUTH_DEV_MODE"
	EnvDueSoonDays   = "CATCARE_CARE_DUE_SOON_DAYS"
	EnvWeightDrop    = "CATCARE_CARE_WEIGHT_DROP_RATIO"
	EnvPhotosBucket  = "CATCARE_PHOTOS_BUCKET"
	EnvWAVerifyToken = "CATCARE_WHATSAPP_VERIFY_TOKEN"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Photos   PhotosConfig
	Care     CareConfig
	WhatsApp WhatsAppConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDB lee solo la sección de base de datos (herramientas como cmd/migrate).
func LoadDB() (DBConfig, error) {
	var db DBConfig
	if err := envconfig.Process(EnvPrefix, &db); err != nil {
		return DBConfig{}, fmt.Errorf("parsing db config: %w", err)
	}
	if !db.Enabled() {
		return DBConfig{}, fmt.Errorf("%s is required", EnvDBDSN)
	}
	return db, nil
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid %s %q: %w", EnvTimezone, c.App.Timezone, err)
	}
	// 0 en el dominio significa "sin configurar" y cae al default; acá no se acepta.
	if c.Care.DueSoonDays < 1 || c.Care.NotificationWindowDays < 1 || c.Care.GroomingGapDays < 1 {
		return fmt.Errorf("care windows must be >= 1")
	}
	if c.Care.WeightDropRatio <= 0 || c.Care.WeightDropRatio > 1 {
		return fmt.Errorf("invalid %s %v: must be in (0, 1]", EnvWeightDrop, c.Care.WeightDropRatio)
	}
	// Sin verifier solo se permite en dev.
	if !c.Auth.DevMode && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%s is required unless %s=true", EnvJWTSecret, EnvAuthDevMode)
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"CATCARE_APP_ENV" default:"dev"`
	Port      string `envconfig:"CATCARE_APP_PORT" default:"8080"`
	Name      string `envconfig:"CATCARE_APP_NAME" default:"cat-care-console"`
	LogLevel  string `envconfig:"CATCARE_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"CATCARE_LOG_FORMAT" default:"json"`
	Timezone  string `envconfig:"CATCARE_APP_TIMEZONE" default:"Asia/Jakarta"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location ya fue validada en Load; ante un valor inválido cae a UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type DBConfig struct {
	DSN             string        `envconfig:"CATCARE_DB_DSN"`
	MaxOpenConns    int           `envconfig:"CATCARE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CATCARE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CATCARE_DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"CATCARE_DB_CONN_MAX_IDLE_TIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"CATCARE_DB_AUTO_MIGRATE" default:"false"`
}

// Enabled: sin DSN el servicio corre con repos in-memory.
func (d DBConfig) Enabled() bool {
	return strings.TrimSpace(d.DSN) != ""
}

type RedisConfig struct {
	URL string `envconfig:"CATCARE_REDIS_URL"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"CATCARE_JWT_SECRET"`
	JWTIssuer string `envconfig:"CATCARE_JWT_ISSUER"`
	DevMode   bool   `envconfig:"CATCARE_AUTH_DEV_MODE" default:"false"`
}

type PhotosConfig struct {
	Bucket       string        `envconfig:"CATCARE_PHOTOS_BUCKET"`
	Region       string        `envconfig:"CATCARE_PHOTOS_REGION" default:"ap-southeast-1"`
	Endpoint     string        `envconfig:"CATCARE_PHOTOS_ENDPOINT"`
	AccessKey    string        `envconfig:"CATCARE_PHOTOS_ACCESS_KEY"`
	SecretKey    string        `envconfig:"CATCARE_PHOTOS_SECRET_KEY"`
	UploadExpiry time.Duration `envconfig:"CATCARE_PHOTOS_UPLOAD_EXPIRY" default:"15m"`
}

func (p PhotosConfig) Enabled() bool {
	return strings.TrimSpace(p.Bucket) != ""
}

type CareConfig struct {
	DueSoonDays            int     `envconfig:"CATCARE_CARE_DUE_SOON_DAYS" default:"7"`
	NotificationWindowDays int     `envconfig:"CATCARE_CARE_NOTIFICATION_WINDOW_DAYS" default:"14"`
	GroomingGapDays        int     `envconfig:"CATCARE_CARE_GROOMING_GAP_DAYS" default:"30"`
	WeightDropRatio        float64 `envconfig:"CATCARE_CARE_WEIGHT_DROP_RATIO" default:"0.9"`
}

type WhatsAppConfig struct {
	VerifyToken   string        `envconfig:"CATCARE_WHATSAPP_VERIFY_TOKEN"`
	AppSecret     string        `envconfig:"CATCARE_WHATSAPP_APP_SECRET"`
	RatePerSecond float64       `envconfig:"CATCARE_WHATSAPP_RATE_PER_SECOND" default:"5"`
	Burst         int           `envconfig:"CATCARE_WHATSAPP_BURST" default:"10"`
	DedupeTTL     time.Duration `envconfig:"CATCARE_WHATSAPP_DEDUPE_TTL" default:"24h"`
}
