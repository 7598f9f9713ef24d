package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func newAppointment(start string, duration int) *domain.Appointment {
	return &domain.Appointment{
		TenantID:        1,
		CustomerID:      10,
		ResourceID:      100,
		Date:            monday,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func TestAppointmentRepository_RejectsOverlap(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newAppointment("10:00", 30))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAppointment("10:15", 30))
	assert.ErrorIs(t, err, appointmentRepo.ErrOverlap)

	// касание границ не считается пересечением
	_, err = repo.Create(ctx, newAppointment("10:30", 30))
	assert.NoError(t, err)
}

func TestAppointmentRepository_CancelledFreesSlot(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("10:00", 30))
	require.NoError(t, err)

	a.Status = domain.StatusCancelled
	require.NoError(t, repo.TransitionStatus(ctx, a, domain.StatusConfirmed, time.Time{}))

	_, err = repo.Create(ctx, newAppointment("10:00", 30))
	assert.NoError(t, err)
}

func TestAppointmentRepository_TransitionStatusIsCompareAndSet(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("10:00", 30))
	require.NoError(t, err)

	a.Status = domain.StatusNoShow
	require.NoError(t, repo.TransitionStatus(ctx, a, domain.StatusConfirmed, time.Time{}))
	assert.ErrorIs(t, repo.TransitionStatus(ctx, a, domain.StatusConfirmed, time.Time{}), appointmentRepo.ErrStatusChanged)
}

func TestAppointmentRepository_TransitionStatusRejectsStaleRead(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("10:00", 30))
	require.NoError(t, err)
	seen := a.UpdatedAt

	edited := *a
	edited.Notes = ptr.Ptr("window seat")
	edited.UpdatedAt = monday.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, &edited))

	a.Status = domain.StatusCancelled
	assert.ErrorIs(t, repo.TransitionStatus(ctx, a, domain.StatusConfirmed, seen), appointmentRepo.ErrStatusChanged)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, "window seat", *stored.Notes)
}

func TestAppointmentRepository_UpdateRequiresConfirmed(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("10:00", 30))
	require.NoError(t, err)

	cancelled := *a
	cancelled.Status = domain.StatusCancelled
	require.NoError(t, repo.TransitionStatus(ctx, &cancelled, domain.StatusConfirmed, a.UpdatedAt))

	a.Notes = ptr.Ptr("late edit")
	assert.ErrorIs(t, repo.Update(ctx, a), appointmentRepo.ErrStatusChanged)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Notes)
}

func TestAppointmentRepository_IdempotencyKey(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	first := newAppointment("10:00", 30)
	first.IdempotencyKey = ptr.Ptr("req-1")
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	dup := newAppointment("11:00", 30)
	dup.IdempotencyKey = ptr.Ptr("req-1")
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, appointmentRepo.ErrDuplicateIdempotencyKey)

	found, err := repo.GetByIdempotencyKey(ctx, 1, "req-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}
