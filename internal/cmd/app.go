package cmd

import (
	"context"
	"log/slog"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/pkg"
	"yatube/internal/repository/db"
	rrepo "yatube/internal/repository/redis"
	"yatube/internal/service"
	"yatube/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app 各子命令共用的依赖
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, db: gdb}, nil
}

func (a *app) Close() {
	if err := db.Close(a.db); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}

func (a *app) redis() (*redis.Client, error) {
	return rrepo.NewClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
}

func (a *app) pageCache(rdb *redis.Client) cache.PageCache {
	if a.cfg.PageCache == config.CacheRedis {
		return &rrepo.PageCacheRepository{Client: rdb}
	}
	return cache.NewMemoryCache()
}

// imageStore 配了 MinIO 用 MinIO，否则存本地目录
func (a *app) imageStore(ctx context.Context) (storage.ImageStore, string, error) {
	if a.cfg.UseMinio() {
		m, err := storage.NewMinio(storage.MinioConfig{
			Endpoint:  a.cfg.MinioEndpoint,
			AccessKey: a.cfg.MinioAccessKey,
			SecretKey: a.cfg.MinioSecretKey,
			Bucket:    a.cfg.MinioBucket,
			UseSSL:    a.cfg.MinioUseSSL,
			PublicURL: a.cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		return m, "", nil
	}
	return storage.NewLocal(a.cfg.MediaDir, a.cfg.MediaURL), a.cfg.MediaDir, nil
}

func (a *app) mailer() pkg.Mailer {
	if a.cfg.UseSMTP() {
		return pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPUsername,
			Password: a.cfg.SMTPPassword,
			From:     a.cfg.SMTPFrom,
		})
	}
	return &pkg.LogMailer{Logger: a.logger.With("component", "mailer")}
}

// outboxSender 没有配置 broker 时打日志
func (a *app) outboxSender() (service.Sender, func() error, error) {
	if !a.cfg.UseKafka() {
		return service.LogSender(a.logger.With("component", "outbox")), func() error { return nil }, nil
	}
	p, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: a.cfg.KafkaBrokers, Topic: a.cfg.KafkaTopic})
	if err != nil {
		return nil, nil, err
	}
	return service.KafkaSender(p), p.Close, nil
}
