package mailer

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebahatselcuk/campus-tracker/internal/config"
	"github.com/sirupsen/logrus"
)

// MailWorker разбирает очередь писем и отдает их почтовому шлюзу
type MailWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewMailWorker создает новый MailWorker
func NewMailWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *MailWorker {
	return &MailWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.MailerTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди писем
func (w *MailWorker) Start(ctx context.Context) {
	w.logger.Info("Starting mail worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping mail worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка (очереди),
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, mailQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop reset email event from Redis")
					time.Sleep(w.cfg.MailerTimeout)
					continue
				}

				// result[0] - ключ, result[1] - значение
				payload := result[1]
				var event ResetEmailEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal reset email event from Redis")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *MailWorker) deliver(ctx context.Context, event ResetEmailEvent, rawPayload string) {
	log := w.logger.WithField("event_email", event.Email)
	log.Debug("Delivering reset email...")

	if w.cfg.MailerURL == "" {
		log.Warn("Mailer URL is not configured. Skipping reset email delivery.")
		return
	}

	maxRetries := w.cfg.MailerMaxRetries
	baseDelay := w.cfg.MailerBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.MailerURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create mail request. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")

		// Добавляем HMAC подпись, если MAILER_SECRET задан
		if w.cfg.MailerSecret != "" {
			signature := generateHMACSHA256(rawPayload, w.cfg.MailerSecret)
			req.Header.Set("X-Mailer-Signature", signature)
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to send reset email. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Reset email delivered successfully.")
			return
		}
		log.Warnf("Reset email delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, baseDelay, maxRetries-1-i)
		time.Sleep(baseDelay)
		baseDelay *= 2 // Экспоненциальная задержка
	}

	log.Errorf("Failed to deliver reset email after %d retries.", maxRetries)
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
