package service

import (
	"context"
	"log/slog"
	"time"

	"yatube/internal/metrics"
	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/db"

	"gorm.io/gorm"
)

type FollowService struct {
	repo  *db.FollowRepository
	users *db.UserRepository
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 把 outbox 表里的事件异步投递出去
type OutboxRelayer struct {
	repo      *db.OutboxRepository
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
	logger    *slog.Logger
}

func NewFollowService(gdb *gorm.DB) *FollowService {
	return &FollowService{
		repo:  &db.FollowRepository{DB: gdb},
		users: &db.UserRepository{DB: gdb},
	}
}

func NewOutboxRelayer(gdb *gorm.DB, sender Sender, logger *slog.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &db.OutboxRepository{DB: gdb},
		batchSize: 200,
		interval:  time.Second,
		maxRetry:  5,
		sender:    sender,
		logger:    logger.With("component", "outbox"),
	}
}

// Author 按用户名查找被关注的作者
func (s *FollowService) Author(ctx context.Context, username string) (*model.User, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	return author, nil
}

// Follow 关注 username，返回被关注的作者以及是否新建了关系
func (s *FollowService) Follow(ctx context.Context, userID uint64, username string) (*model.User, bool, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, notFound(err)
	}
	if author.ID == userID {
		return author, false, ErrSelfFollow
	}
	changed, err := s.repo.Follow(ctx, userID, author.ID)
	return author, changed, err
}

// Unfollow 取关，本来没关注时什么也不做
func (s *FollowService) Unfollow(ctx context.Context, userID uint64, username string) (*model.User, bool, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, notFound(err)
	}
	changed, err := s.repo.Unfollow(ctx, userID, author.ID)
	return author, changed, err
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	r.logger.Info("outbox relayer started", "interval", r.interval)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relayer stopped")
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 投递一批，失败的留到下一轮重试
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("outbox query failed", "error", err)
		return 0
	}
	sent := 0
	for i := range rows {
		ob := &rows[i]
		if err := r.sender(ctx, ob); err != nil {
			metrics.OutboxDelivered.WithLabelValues(ob.EventType, "failed").Inc()
			r.logger.Warn("outbox send failed", "id", ob.ID, "retry", ob.Retry+1, "error", err)
			if err := r.repo.RetryUpdate(ctx, ob, r.maxRetry); err != nil {
				r.logger.Error("outbox retry update failed", "id", ob.ID, "error", err)
			}
			continue
		}
		metrics.OutboxDelivered.WithLabelValues(ob.EventType, "sent").Inc()
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.logger.Error("outbox success update failed", "id", ob.ID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

// LogSender 没有配置 Kafka 时只打日志
func LogSender(logger *slog.Logger) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		logger.InfoContext(ctx, "outbox event", "type", ob.EventType, "actor", ob.ActorID, "target", ob.TargetID, "payload", ob.Payload)
		return nil
	}
}

// KafkaSender 以 actor 为 key 写入 Kafka，同一用户的事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ActorID), []byte(ob.Payload))
	}
}
