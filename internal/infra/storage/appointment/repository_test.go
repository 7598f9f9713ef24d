package appointment

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestMapPQError(t *testing.T) {
	assert.ErrorIs(t, mapPQError(&pq.Error{Code: pgExclusionViolation, Constraint: "appointments_no_overlap"}), ErrOverlap)
	assert.ErrorIs(t, mapPQError(&pq.Error{Code: pgExclusionViolation}), domain.ErrConflict)
	assert.ErrorIs(t, mapPQError(&pq.Error{Code: pgUniqueViolation}), ErrDuplicateIdempotencyKey)
	assert.ErrorIs(t, mapPQError(&pq.Error{Code: pgSerializationFailed}), domain.ErrConflict)
	assert.Nil(t, mapPQError(&pq.Error{Code: "42P01"}))
	assert.Nil(t, mapPQError(errors.New("connection reset")))
}

func TestServicesRoundTrip(t *testing.T) {
	in := []domain.AppointmentService{
		{ServiceID: 1, Name: "Haircut", Price: 2500, DurationMinutes: 30},
		{ServiceID: 2, Name: "Beard trim", Price: 1000, DurationMinutes: 15},
	}

	raw, err := encodeServices(in)
	require.NoError(t, err)

	out, err := decodeServices(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	empty, err := decodeServices(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestStatusChangedIsInvalidTransition(t *testing.T) {
	assert.ErrorIs(t, ErrStatusChanged, domain.ErrInvalidTransition)
	assert.ErrorIs(t, ErrAppointmentNotFound, domain.ErrNotFound)
}
