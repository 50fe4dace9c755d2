package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	alert_mocks "github.com/sebahatselcuk/campus-tracker/internal/alerts/mocks"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestAlertService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAlertService(t *testing.T) (*alertService, *alert_mocks.MockBroker) {
	ctrl := gomock.NewController(t)
	brokerMock := alert_mocks.NewMockBroker(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewAlertService(brokerMock, logger)
	return service.(*alertService), brokerMock
}

func TestBroadcast_Success(t *testing.T) {
	// Подготовка
	service, brokerMock := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	brokerMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, n models.Notification) {
			assert.Equal(t, "Yangın tatbikatı 14:00", n.Text)
			assert.NotEmpty(t, n.ID)
			assert.Positive(t, n.Date)
		}).Return(nil).Times(1)

	// Действие
	notification, err := service.Broadcast(ctx, models.RoleAdministrator, "Yangın tatbikatı 14:00")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Yangın tatbikatı 14:00", notification.Text)
}

func TestBroadcast_Forbidden(t *testing.T) {
	// Подготовка
	service, brokerMock := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания: брокер не вызывается
	brokerMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	notification, err := service.Broadcast(ctx, models.RoleRegular, "текст")

	// Проверки
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, notification)
}

func TestBroadcast_BrokerError(t *testing.T) {
	// Подготовка
	service, brokerMock := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	brokerMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	_, err := service.Broadcast(ctx, models.RoleAdministrator, "текст")

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not publish alert")
}

func TestStream_PassesThroughBrokerChannel(t *testing.T) {
	// Подготовка
	service, brokerMock := newTestAlertService(t)
	ctx := context.Background()
	src := make(chan models.Notification, 1)
	src <- models.Notification{ID: "n1", Text: "текст"}
	close(src)

	// Ожидания
	brokerMock.EXPECT().Subscribe(ctx).Return((<-chan models.Notification)(src), nil).Times(1)

	// Действие
	ch, err := service.Stream(ctx)

	// Проверки
	require.NoError(t, err)
	got, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "n1", got.ID)
}
