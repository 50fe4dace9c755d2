package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	mailQueueKey = "reset_emails"
)

// ResetEmailEvent - письмо для сброса пароля, ожидающее доставки
type ResetEmailEvent struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher - интерфейс постановки писем в очередь доставки
type Publisher interface {
	Publish(ctx context.Context, event ResetEmailEvent) error
}

// RedisMailPublisher - реализация Publisher, использующая Redis
type RedisMailPublisher struct {
	redisClient *redis.Client
}

// NewRedisMailPublisher создает новый RedisMailPublisher
func NewRedisMailPublisher(client *redis.Client) *RedisMailPublisher {
	return &RedisMailPublisher{
		redisClient: client,
	}
}

// Publish кладет событие в очередь Redis
func (p *RedisMailPublisher) Publish(ctx context.Context, event ResetEmailEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reset email event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, mailQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish reset email event to Redis: %w", err)
	}
	return nil
}
