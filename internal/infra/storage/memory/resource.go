package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
)

// ResourceRepository in-memory реализация репозитория ресурсов
type ResourceRepository struct {
	mu        sync.RWMutex
	resources map[int64]domain.Resource
	nextID    int64
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{resources: make(map[int64]domain.Resource)}
}

// Put добавляет или заменяет ресурс (для заполнения данными)
func (r *ResourceRepository) Put(res *domain.Resource) *domain.Resource {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ID == 0 {
		r.nextID++
		res.ID = r.nextID
	} else if res.ID > r.nextID {
		r.nextID = res.ID
	}
	r.resources[res.ID] = *res
	return res
}

func (r *ResourceRepository) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return &res, nil
}

func (r *ResourceRepository) UpdateStatus(_ context.Context, id int64, status domain.ResourceStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return resourceRepo.ErrResourceNotFound
	}
	res.Status = status
	res.UpdatedAt = updatedAt
	r.resources[id] = res
	return nil
}
