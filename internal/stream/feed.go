package stream

import (
	"context"

	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// SnapshotSource отдает полный список событий, упорядоченный по дате по убыванию
type SnapshotSource interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
}

// Feed - живая лента: после каждой записи перечитывает хранилище и рассылает
// полный снапшот подписчикам. Явная замена слушателя снапшотов из
// backend-as-a-service: подписка имеет начало и конец, а не живет в жизненном
// цикле экрана.
type Feed struct {
	source      SnapshotSource
	broadcaster *Broadcaster
	logger      *logrus.Logger
}

func NewFeed(source SnapshotSource, logger *logrus.Logger) *Feed {
	return &Feed{
		source:      source,
		broadcaster: NewBroadcaster(),
		logger:      logger,
	}
}

// Notify перечитывает ленту и рассылает снапшот. Вызывается сервисами после
// каждой записи в хранилище.
func (f *Feed) Notify(ctx context.Context) {
	snapshot, err := f.source.ListIncidents(ctx)
	if err != nil {
		f.logger.WithError(err).Error("Failed to load feed snapshot for broadcast")
		return
	}
	f.broadcaster.Broadcast(snapshot)
}

// Snapshot возвращает текущий снапшот для первой отдачи новому подписчику
func (f *Feed) Snapshot(ctx context.Context) ([]models.Incident, error) {
	return f.source.ListIncidents(ctx)
}

// Subscribe регистрирует подписчика ленты
func (f *Feed) Subscribe() (uint64, <-chan []models.Incident) {
	return f.broadcaster.Subscribe()
}

// Unsubscribe снимает подписку
func (f *Feed) Unsubscribe(id uint64) {
	f.broadcaster.Unsubscribe(id)
}

// Close завершает все подписки
func (f *Feed) Close() {
	f.broadcaster.Close()
}
