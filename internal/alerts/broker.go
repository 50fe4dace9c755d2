package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

const alertChannelKey = "campus_alerts"

// Broker - интерфейс канала экстренных оповещений
type Broker interface {
	Publish(ctx context.Context, notification models.Notification) error
	Subscribe(ctx context.Context) (<-chan models.Notification, error)
}

// RedisAlertBroker - реализация Broker поверх Redis pub/sub. Сообщения
// доставляются только подключенным подписчикам, ничего не сохраняется.
type RedisAlertBroker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRedisAlertBroker создает новый RedisAlertBroker
func NewRedisAlertBroker(client *redis.Client, logger *logrus.Logger) *RedisAlertBroker {
	return &RedisAlertBroker{
		redisClient: client,
		logger:      logger,
	}
}

// Publish публикует оповещение в канал Redis
func (b *RedisAlertBroker) Publish(ctx context.Context, notification models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := b.redisClient.Publish(ctx, alertChannelKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification to Redis: %w", err)
	}
	return nil
}

// Subscribe подписывается на канал оповещений. Возвращенный канал закрывается
// при отмене контекста.
func (b *RedisAlertBroker) Subscribe(ctx context.Context) (<-chan models.Notification, error) {
	pubsub := b.redisClient.Subscribe(ctx, alertChannelKey)
	// Дожидаемся подтверждения подписки, чтобы не потерять первые сообщения
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to alert channel: %w", err)
	}

	out := make(chan models.Notification)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var notification models.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
					b.logger.WithError(err).Error("Failed to unmarshal notification from Redis")
					continue
				}
				select {
				case out <- notification:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
