package retry_notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/scheduler"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(name string) error {
	return m.Called(name).Error(0)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "accepted", status: http.StatusAccepted},
		{name: "runner stopped", err: scheduler.ErrStopped, status: http.StatusServiceUnavailable},
		{name: "unexpected error", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &mockQueue{}
			queue.On("Enqueue", "notification_retry").Return(tt.err).Once()

			h := NewHandler(queue, "notification_retry", logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/retry", nil))

			assert.Equal(t, tt.status, rec.Code)
			queue.AssertExpectations(t)

			if tt.status == http.StatusAccepted {
				var body RetryResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, RetryResponse{Job: "notification_retry", Status: "accepted"}, body)
			}
		})
	}
}
