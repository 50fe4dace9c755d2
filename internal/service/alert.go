package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebahatselcuk/campus-tracker/internal/alerts"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// AlertService определяет контракт экстренной рассылки администратора.
// Оповещения эфемерны: публикуются в канал и нигде не сохраняются.
type AlertService interface {
	Broadcast(ctx context.Context, actingRole models.Role, text string) (*models.Notification, error)
	Stream(ctx context.Context) (<-chan models.Notification, error)
}

type alertService struct {
	broker alerts.Broker
	logger *logrus.Logger
}

func NewAlertService(broker alerts.Broker, logger *logrus.Logger) AlertService {
	return &alertService{
		broker: broker,
		logger: logger,
	}
}

// Broadcast публикует оповещение всем подключенным клиентам. Только для администратора.
func (s *alertService) Broadcast(ctx context.Context, actingRole models.Role, text string) (*models.Notification, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "Broadcast",
	})

	if actingRole != models.RoleAdministrator {
		log.Warn("Broadcast refused: not an administrator")
		return nil, ErrForbidden
	}

	notification := models.Notification{
		ID:   uuid.NewString(),
		Text: text,
		Date: time.Now().UnixMilli(),
	}
	if err := s.broker.Publish(ctx, notification); err != nil {
		log.WithError(err).Error("Failed to publish alert")
		return nil, fmt.Errorf("service: could not publish alert: %w", err)
	}

	log.WithField("notification_id", notification.ID).Info("Alert broadcast successfully")
	return &notification, nil
}

// Stream подписывает вызывающего на поток оповещений
func (s *alertService) Stream(ctx context.Context) (<-chan models.Notification, error) {
	ch, err := s.broker.Subscribe(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to subscribe to alerts")
		return nil, fmt.Errorf("service: could not subscribe to alerts: %w", err)
	}
	return ch, nil
}
