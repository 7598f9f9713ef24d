package customerservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func TestClient_GetCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/tenants/7/customers/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"tenant_id":7,"first_name":"Ann","last_name":"Lee","phone":"13800138000","email":"ann@example.com","communication_preference":"EMAIL"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())
	customer, err := c.GetCustomer(context.Background(), 7, 42)
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", customer.FullName())
	assert.Equal(t, domain.PreferEmail, customer.Preference)
	assert.Equal(t, int64(7), customer.TenantID)
}

func TestClient_GetCustomer_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())
	_, err := c.GetCustomer(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_GetCustomer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())
	_, err := c.GetCustomer(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
