package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"plaza-go/internal/config"
	"plaza-go/internal/infra/database"
	infraKafka "plaza-go/internal/infra/kafka"
	infraRedis "plaza-go/internal/infra/redis"
	"plaza-go/internal/notify"
	"plaza-go/internal/repository"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

// 评论计数对账 worker
// 消费评论生命周期事件，按实际行数回填帖子的 comment_count，
// 再通过元数据频道把新计数推给已打开的线程视图。
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	db := database.Get()
	commentRepo := repository.NewCommentRepository(db)
	postRepo := repository.NewPostRepository(db)
	notifier := notify.NewRedisNotifier(infraRedis.Get())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topics["comment_events"]
	groupID := "plaza-go-comment-counter"

	logger.Info("Comment counter worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	handler := func(ev *infraKafka.CommentEvent) error {
		// 不做增量，直接按行数对账，消息乱序或重复都收敛到正确值
		count, err := commentRepo.CountByPost(ctx, ev.PostID)
		if err != nil {
			return fmt.Errorf("count comments: %w", err)
		}
		if err := postRepo.SetCommentCount(ctx, ev.PostID, count); err != nil {
			return fmt.Errorf("set comment count: %w", err)
		}

		metaEv := notify.Event{Kind: notify.EventMeta, PostID: ev.PostID}
		if err := notifier.Publish(ctx, notify.MetaChannel(ev.PostID), metaEv); err != nil {
			logger.Warn("Failed to publish meta change",
				zap.Int64("post_id", ev.PostID),
				zap.Error(err),
			)
		}

		logger.Debug("Comment count reconciled",
			zap.Int64("post_id", ev.PostID),
			zap.Int64("count", count),
		)
		return nil
	}

	infraKafka.StartCommentEventConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, handler)
}
