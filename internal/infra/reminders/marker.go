package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const keyPrefix = "reminder"

// ErrMarkerStore возвращается при недоступности хранилища маркеров
var ErrMarkerStore = errors.New("reminders: marker store error")

func markerKey(appointmentID int64, lead domain.ReminderLead) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, appointmentID, lead)
}

// RedisMarker хранит маркеры отправленных напоминаний в Redis (SET NX с TTL).
// Маркер разделяется всеми репликами сервиса.
type RedisMarker struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisMarker создает маркер поверх redis-клиента
func NewRedisMarker(client redis.Cmdable, ttl time.Duration) *RedisMarker {
	return &RedisMarker{client: client, ttl: ttl}
}

// MarkOnce ставит маркер и возвращает true, если его ещё не было
func (m *RedisMarker) MarkOnce(ctx context.Context, appointmentID int64, lead domain.ReminderLead) (bool, error) {
	ok, err := m.client.SetNX(ctx, markerKey(appointmentID, lead), time.Now().Unix(), m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: SetNX: %v", ErrMarkerStore, err)
	}
	return ok, nil
}

// MemoryMarker in-memory маркеры для одной реплики и тестов
type MemoryMarker struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

// NewMemoryMarker создает in-memory маркер; ttl <= 0 означает бессрочное хранение
func NewMemoryMarker(ttl time.Duration) *MemoryMarker {
	return &MemoryMarker{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

func (m *MemoryMarker) MarkOnce(_ context.Context, appointmentID int64, lead domain.ReminderLead) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := markerKey(appointmentID, lead)
	if at, ok := m.seen[key]; ok && (m.ttl <= 0 || now.Sub(at) < m.ttl) {
		return false, nil
	}
	m.seen[key] = now
	return true, nil
}
