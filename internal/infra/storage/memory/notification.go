package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/notification"
)

// NotificationRepository in-memory журнал уведомлений
type NotificationRepository struct {
	mu      sync.RWMutex
	records map[int64]domain.NotificationRecord
	nextID  int64
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{records: make(map[int64]domain.NotificationRecord)}
}

func (r *NotificationRepository) Create(_ context.Context, n *domain.NotificationRecord) (*domain.NotificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n.ID = r.nextID
	r.records[n.ID] = *n
	return n, nil
}

func (r *NotificationRepository) Update(_ context.Context, n *domain.NotificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[n.ID]; !ok {
		return notificationRepo.ErrRecordNotFound
	}
	r.records[n.ID] = *n
	return nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id int64) (*domain.NotificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.records[id]
	if !ok {
		return nil, notificationRepo.ErrRecordNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) GetRetryable(_ context.Context, maxRetryCount, limit int) ([]*domain.NotificationRecord, error) {
	result := r.filter(func(n *domain.NotificationRecord) bool {
		return n.Status == domain.NotificationFailed && n.Retryable && (maxRetryCount <= 0 || n.RetryCount < maxRetryCount)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *NotificationRepository) GetByBusinessID(_ context.Context, tenantID int64, businessType, businessID string) ([]*domain.NotificationRecord, error) {
	return r.filter(func(n *domain.NotificationRecord) bool {
		return n.TenantID == tenantID && n.BusinessType == businessType && n.BusinessID == businessID
	}), nil
}

func (r *NotificationRepository) GetByTenant(_ context.Context, filter domain.NotificationFilter) ([]*domain.NotificationRecord, error) {
	result := r.filter(func(n *domain.NotificationRecord) bool {
		if n.TenantID != filter.TenantID {
			return false
		}
		if filter.Status != nil && n.Status != *filter.Status {
			return false
		}
		return filter.Channel == nil || n.Channel == *filter.Channel
	})

	// новые записи первыми, как в PostgreSQL-реализации
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	if filter.Offset >= len(result) {
		return []*domain.NotificationRecord{}, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// All возвращает все записи в порядке создания (для тестов)
func (r *NotificationRepository) All() []*domain.NotificationRecord {
	return r.filter(func(*domain.NotificationRecord) bool { return true })
}

func (r *NotificationRepository) filter(match func(n *domain.NotificationRecord) bool) []*domain.NotificationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.NotificationRecord, 0)
	for _, n := range r.records {
		c := n
		if match(&c) {
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
