package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const Prefix = "yatube"

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Addr     string `envconfig:"ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"file:yatube.db?_pragma=foreign_keys(1)"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	SecretKey  string        `envconfig:"SECRET_KEY" default:"change-me"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"336h"`

	PageCache    string        `envconfig:"PAGE_CACHE" default:"memory"`
	PageCacheTTL time.Duration `envconfig:"PAGE_CACHE_TTL" default:"20s"`

	MediaDir string `envconfig:"MEDIA_DIR" default:"media"`
	MediaURL string `envconfig:"MEDIA_URL" default:"/media"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"yatube"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinioPublicURL string `envconfig:"MINIO_PUBLIC_URL"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"yatube.social"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"Yatube <no-reply@yatube.local>"`
}

// Load 从 YATUBE_* 环境变量读取配置
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) UseMinio() bool { return c.MinioEndpoint != "" }
func (c *Config) UseSMTP() bool  { return c.SMTPHost != "" }
func (c *Config) UseKafka() bool { return len(c.KafkaBrokers) > 0 }
