package stream

import (
	"sync"
	"sync/atomic"

	"github.com/sebahatselcuk/campus-tracker/internal/models"
)

// Broadcaster рассылает снапшоты ленты всем подписчикам. Медленный подписчик
// может пропустить промежуточный снапшот - гарантируется только то, что
// последний доставленный снапшот отражает согласованное состояние хранилища.
type Broadcaster struct {
	subscribers map[uint64]chan []models.Incident
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan []models.Incident),
	}
}

// Subscribe регистрирует подписчика и возвращает его идентификатор и канал
func (b *Broadcaster) Subscribe() (uint64, <-chan []models.Incident) {
	id := b.nextID.Add(1)
	ch := make(chan []models.Incident, 1)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe снимает подписку и закрывает канал
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Broadcast отправляет снапшот всем подписчикам без блокировки
func (b *Broadcaster) Broadcast(snapshot []models.Incident) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Пропускаем медленных подписчиков
		}
	}
}

// SubscriberCount возвращает число активных подписчиков
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close закрывает каналы всех подписчиков
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
