package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const envPrefix = "INKWELL_"

// Storage and message queue backend names.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageGCS   = "gcs"

	MQNone     = "none"
	MQRabbitMQ = "rabbitmq"
	MQPubSub   = "pubsub"
)

type Config struct {
	Env        string `env:"ENV" envDefault:"production"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"3000" validate:"min=1,max=65535"`

	Auth    AuthConfig
	Seed    SeedConfig
	Uploads UploadsConfig
	Log     LogConfig

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`

	StorageBackend string      `env:"STORAGE_BACKEND" envDefault:"local" validate:"oneof=local minio gcs"`
	Minio          MinioConfig `envPrefix:"MINIO_"`
	GCS            GCSConfig   `envPrefix:"GCS_"`

	MQBackend string         `env:"MQ_BACKEND" envDefault:"none" validate:"oneof=none rabbitmq pubsub"`
	MQChannel string         `env:"MQ_CHANNEL" envDefault:"content-events"`
	RabbitMQ  RabbitMQConfig `envPrefix:"RABBITMQ_"`
	PubSub    PubSubConfig   `envPrefix:"PUBSUB_"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET" validate:"required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"gt=0"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`
}

type SeedConfig struct {
	Enabled       bool   `env:"SEED" envDefault:"true"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

type UploadsConfig struct {
	Dir      string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	MaxBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760" validate:"gt=0"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	File  string `env:"LOG_FILE"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"inkwell-media"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type GCSConfig struct {
	Bucket          string `env:"BUCKET"`
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

type RabbitMQConfig struct {
	URL             string `env:"URL"`
	QueueDurable    bool   `env:"QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"QUEUE_AUTO_DELETE" envDefault:"false"`
	PrefetchCount   int    `env:"PREFETCH_COUNT" envDefault:"0"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PROJECT_ID"`
	CredentialsFile    string `env:"CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"SUBSCRIPTION_SUFFIX" envDefault:"-sub"`
}

// IsDevelopment reports whether the server runs in dev mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "dev"
}

var validate = validator.New()

// LoadConfig reads INKWELL_* environment variables (and a .env file in dev)
// into a validated Config.
func LoadConfig() (Config, error) {
	if os.Getenv(envPrefix+"ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Auth.JWTSecret = strings.TrimSpace(cfg.Auth.JWTSecret)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
