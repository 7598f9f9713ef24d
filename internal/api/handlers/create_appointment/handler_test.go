package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const body = `{"customerId":7,"resourceId":3,"date":"2025-03-04","startTime":"10:00","serviceIds":[11]}`

func serve(t *testing.T, uc CreateAppointmentUseCase, payload string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.Tenant(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createAppointment.Request) bool {
		return r.TenantID == 1 && r.ResourceID == 3 && r.StartTime == "10:00" &&
			r.IdempotencyKey != nil && *r.IdempotencyKey == "key-1"
	})).Return(&createAppointment.Response{Appointment: &domain.Appointment{
		ID:              99,
		TenantID:        1,
		CustomerID:      7,
		ResourceID:      3,
		Date:            time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 45,
		Status:          domain.StatusConfirmed,
	}}, nil)

	rec := serve(t, uc, body, map[string]string{middleware.TenantHeader: "1", IdempotencyKeyHeader: "key-1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(99), resp.ID)
	assert.Equal(t, "10:45", resp.EndTime)
	assert.Equal(t, "confirmed", resp.Status)
	uc.AssertExpectations(t)
}

func TestHandle_ReplayReturnsOK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&createAppointment.Response{
		Appointment: &domain.Appointment{ID: 99, StartTime: "10:00", DurationMinutes: 30},
		Replayed:    true,
	}, nil)

	rec := serve(t, uc, body, map[string]string{middleware.TenantHeader: "1", IdempotencyKeyHeader: "key-1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "conflict", err: createAppointment.ErrSlotNotAvailable, status: http.StatusConflict},
		{name: "resource not found", err: createAppointment.ErrResourceNotFound, status: http.StatusNotFound},
		{name: "service inactive", err: createAppointment.ErrServiceInactive, status: http.StatusUnprocessableEntity},
		{name: "past", err: createAppointment.ErrPastAppointment, status: http.StatusBadRequest},
		{name: "internal", err: createAppointment.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(t, uc, body, map[string]string{middleware.TenantHeader: "1"})
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	uc := &mockUseCase{}

	rec := serve(t, uc, body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing tenant")

	rec = serve(t, uc, `{"date":"04.03.2025"}`, map[string]string{middleware.TenantHeader: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bad date")

	rec = serve(t, uc, `{"unknown":1}`, map[string]string{middleware.TenantHeader: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown field")

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
