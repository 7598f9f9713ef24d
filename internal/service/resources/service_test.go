package resources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newService() (*Service, int64) {
	repo := memory.NewResourceRepository()
	res := repo.Put(&domain.Resource{TenantID: 1, Name: "Room A", Kind: domain.ResourceKindRoom, Status: domain.ResourceActive})
	return NewService(repo, fixedTime{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, logger.NewNop()), res.ID
}

func TestService_SetStatus(t *testing.T) {
	svc, id := newService()
	ctx := context.Background()

	res, err := svc.SetStatus(ctx, 1, id, domain.ResourceMaintenance)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceMaintenance, res.Status)

	res, err = svc.Get(ctx, 1, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceMaintenance, res.Status)

	_, err = svc.SetStatus(ctx, 1, id, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_DeleteIsFinal(t *testing.T) {
	svc, id := newService()
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1, id))

	res, err := svc.Get(ctx, 1, id)
	require.NoError(t, err)
	assert.True(t, res.IsDeleted())

	_, err = svc.SetStatus(ctx, 1, id, domain.ResourceActive)
	assert.ErrorIs(t, err, ErrResourceDeleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestService_TenantIsolation(t *testing.T) {
	svc, id := newService()

	_, err := svc.Get(context.Background(), 2, id)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 2, id), ErrResourceNotFound)
}
