package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
)

// Service управление статусом ресурсов. Удаление мягкое: статус deleted.
type Service struct {
	resourceRepo ResourceRepository
	timeProvider TimeProvider
	logger       Logger
}

func NewService(resourceRepo ResourceRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Get возвращает ресурс тенанта
func (s *Service) Get(ctx context.Context, tenantID, id int64) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Get: repository error for resource_id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	if resource.TenantID != tenantID {
		return nil, ErrResourceNotFound
	}
	return resource, nil
}

// SetStatus меняет статус ресурса. Удалённый ресурс восстановить нельзя.
func (s *Service) SetStatus(ctx context.Context, tenantID, id int64, status domain.ResourceStatus) (*domain.Resource, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	resource, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if resource.IsDeleted() {
		s.logger.Warn("SetStatus: resource_id=%d is deleted, status=%s rejected", id, status)
		return nil, ErrResourceDeleted
	}
	if resource.Status == status {
		return resource, nil
	}

	now := s.timeProvider.Now()
	if err := s.resourceRepo.UpdateStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("SetStatus: repository error for resource_id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetStatus: resource_id=%d %s -> %s", id, resource.Status, status)
	resource.Status = status
	resource.UpdatedAt = now
	return resource, nil
}

// Delete мягко удаляет ресурс
func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	_, err := s.SetStatus(ctx, tenantID, id, domain.ResourceDeleted)
	return err
}
