package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Upload   UploadConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL" required:"true"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" required:"true"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" required:"true"`
	Subject      string `envconfig:"NATS_SUBJECT" required:"true"`
	DeliverGroup string `envconfig:"NATS_DELIVER_GROUP" required:"true"`
}

// UploadConfig is the tunable surface of the upload lifecycle. The category
// table is loaded once at process start; every issued session snapshots the
// policy it was issued under, so later changes never affect open sessions.
type UploadConfig struct {
	SessionTTL     time.Duration    `envconfig:"UPLOAD_SESSION_TTL" default:"15m"`
	SweepEvery     time.Duration    `envconfig:"UPLOAD_SWEEP_EVERY" default:"5m"`
	FullSweepEvery time.Duration    `envconfig:"UPLOAD_FULL_SWEEP_EVERY" default:"24h"`
	StorageTimeout time.Duration    `envconfig:"UPLOAD_STORAGE_TIMEOUT" default:"5s"`
	Categories     CategoryPolicies `envconfig:"UPLOAD_CATEGORIES" default:"{\"profile-image\":{\"extensions\":[\".jpg\",\".jpeg\",\".png\",\".webp\"],\"max_size_bytes\":5242880,\"key_prefix\":\"profile-image\"},\"org-logo\":{\"extensions\":[\".png\",\".svg\",\".webp\"],\"max_size_bytes\":1048576,\"key_prefix\":\"org-logo\"},\"cause-banner\":{\"extensions\":[\".jpg\",\".jpeg\",\".png\"],\"max_size_bytes\":8388608,\"key_prefix\":\"cause-banner\"},\"lecture-document\":{\"extensions\":[\".pdf\"],\"max_size_bytes\":26214400,\"key_prefix\":\"lecture-document\",\"validity_window\":\"30m\"}}"`
}

// CategoryPolicy maps one upload category to its extension allowlist, size
// cap, object key prefix and optional per-category validity window.
type CategoryPolicy struct {
	Extensions     []string
	MaxSizeBytes   int64
	KeyPrefix      string
	ValidityWindow time.Duration
}

// CategoryPolicies is decoded from a JSON env value by envconfig
type CategoryPolicies map[string]CategoryPolicy

type jsonCategoryPolicy struct {
	Extensions     []string `json:"extensions"`
	MaxSizeBytes   int64    `json:"max_size_bytes"`
	KeyPrefix      string   `json:"key_prefix"`
	ValidityWindow string   `json:"validity_window"`
}

// Decode implements envconfig.Decoder
func (c *CategoryPolicies) Decode(value string) error {
	var raw map[string]jsonCategoryPolicy
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return fmt.Errorf("invalid category policy table: %w", err)
	}

	policies := make(CategoryPolicies, len(raw))
	for name, p := range raw {
		if len(p.Extensions) == 0 {
			return fmt.Errorf("category %q has no allowed extensions", name)
		}
		if p.MaxSizeBytes <= 0 {
			return fmt.Errorf("category %q has no positive size limit", name)
		}
		policy := CategoryPolicy{
			Extensions:   p.Extensions,
			MaxSizeBytes: p.MaxSizeBytes,
			KeyPrefix:    p.KeyPrefix,
		}
		if policy.KeyPrefix == "" {
			policy.KeyPrefix = name
		}
		if p.ValidityWindow != "" {
			window, err := time.ParseDuration(p.ValidityWindow)
			if err != nil {
				return fmt.Errorf("category %q has an invalid validity window: %w", name, err)
			}
			policy.ValidityWindow = window
		}
		policies[name] = policy
	}

	*c = policies
	return nil
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
