package stream

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()
	snapshot := []models.Incident{{ID: "1", Title: "Revir"}}

	b.Broadcast(snapshot)

	assert.Equal(t, snapshot, <-ch1)
	assert.Equal(t, snapshot, <-ch2)
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	id, ch := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBroadcaster_UnsubscribeTwiceIsSafe(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	id, _ := b.Subscribe()
	b.Unsubscribe(id)
	b.Unsubscribe(id)
}

func TestBroadcaster_SlowSubscriberSkipsSnapshot(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe()

	// Буфер канала равен одному снапшоту: второй Broadcast не должен блокировать
	b.Broadcast([]models.Incident{{ID: "1"}})
	b.Broadcast([]models.Incident{{ID: "2"}})

	got := <-ch
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	select {
	case extra := <-ch:
		assert.Fail(t, "unexpected extra snapshot", "%v", extra)
	default:
	}
}

func TestBroadcaster_ConcurrentBroadcastAndSubscribe(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, _ := b.Subscribe()
			b.Unsubscribe(id)
		}()
		go func() {
			defer wg.Done()
			b.Broadcast([]models.Incident{{ID: "x"}})
		}()
	}
	wg.Wait()
}

type staticSource struct {
	incidents []models.Incident
	err       error
}

func (s *staticSource) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return s.incidents, s.err
}

func TestFeed_NotifyBroadcastsFreshSnapshot(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	source := &staticSource{incidents: []models.Incident{{ID: "1", Title: "Revir"}}}

	f := NewFeed(source, logger)
	defer f.Close()

	_, ch := f.Subscribe()
	f.Notify(context.Background())

	got := <-ch
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFeed_NotifySwallowsSourceError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	source := &staticSource{err: errors.New("db down")}

	f := NewFeed(source, logger)
	defer f.Close()

	_, ch := f.Subscribe()
	f.Notify(context.Background())

	// Ошибка чтения не доставляет снапшот и не роняет подписчиков
	select {
	case snapshot := <-ch:
		assert.Fail(t, "unexpected snapshot", "%v", snapshot)
	default:
	}
}

func TestFeed_SnapshotReadsSource(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	source := &staticSource{incidents: []models.Incident{{ID: "1"}, {ID: "2"}}}

	f := NewFeed(source, logger)
	defer f.Close()

	snapshot, err := f.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
}
