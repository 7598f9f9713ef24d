package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockCustomerClient struct {
	mock.Mock
}

func (m *mockCustomerClient) GetCustomer(ctx context.Context, tenantID, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type staticMerchant struct {
	profile merchantservice.BusinessProfile
}

func (s staticMerchant) GetBusinessProfileWithGracefulDegradation(context.Context, int64) *merchantservice.BusinessProfile {
	p := s.profile
	return &p
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              5,
		TenantID:        1,
		CustomerID:      42,
		ResourceID:      3,
		ResourceKind:    domain.ResourceKindStaff,
		Date:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 45,
		TotalAmount:     4000,
		Status:          domain.StatusConfirmed,
		Services: []domain.AppointmentService{
			{ServiceID: 1, Name: "Haircut", Price: 2500, DurationMinutes: 30},
			{ServiceID: 2, Name: "Beard trim", Price: 1500, DurationMinutes: 15},
		},
		Notes: ptr.Ptr("window seat"),
	}
}

func TestBuilder_Build(t *testing.T) {
	resources := memory.NewResourceRepository()
	resources.Put(&domain.Resource{ID: 3, TenantID: 1, Name: "Alex", Kind: domain.ResourceKindStaff, Status: domain.ResourceActive})

	customers := new(mockCustomerClient)
	customers.On("GetCustomer", mock.Anything, int64(1), int64(42)).Return(&domain.Customer{
		ID: 42, FirstName: "Ann", LastName: "Lee", Phone: "+8613800138000", Preference: domain.PreferSMS,
	}, nil)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := NewBuilder(resources, customers, staticMerchant{merchantservice.BusinessProfile{Name: "Salon"}}, fixedTime{now}, logger.NewNop())

	evt := b.Build(context.Background(), domain.EventConfirmed, testAppointment())

	_, err := uuid.Parse(evt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventConfirmed, evt.Kind)
	assert.Equal(t, now, evt.OccurredAt)
	assert.Equal(t, "Ann Lee", evt.Customer.Name)
	assert.Equal(t, "Alex", evt.Resource.Name)
	assert.Equal(t, "Haircut, Beard trim", evt.ServiceNames)
	assert.Equal(t, "Salon", evt.Business.Name)
	assert.Equal(t, "window seat", evt.Notes)
	assert.Equal(t, 45, evt.Schedule.DurationMinutes)
	customers.AssertExpectations(t)
}

func TestBuilder_DegradesOnLookupFailure(t *testing.T) {
	customers := new(mockCustomerClient)
	customers.On("GetCustomer", mock.Anything, int64(1), int64(42)).Return(nil, errors.New("timeout"))

	b := NewBuilder(memory.NewResourceRepository(), customers, staticMerchant{}, fixedTime{time.Now()}, logger.NewNop())

	evt := b.Reminder(context.Background(), testAppointment(), domain.ReminderLeadShort)

	assert.Equal(t, domain.EventReminder, evt.Kind)
	assert.Equal(t, domain.ReminderLeadShort, evt.ReminderLead)
	assert.Equal(t, int64(42), evt.Customer.ID)
	assert.Empty(t, evt.Customer.Phone)
	assert.Empty(t, evt.Resource.Name)
	assert.Equal(t, int64(5), evt.AppointmentID)
}

type capturePublisher struct {
	events chan domain.LifecycleEvent
}

func (c *capturePublisher) Publish(_ context.Context, evt domain.LifecycleEvent) {
	c.events <- evt
}

func TestEmitter_EmitUsesCopy(t *testing.T) {
	customers := new(mockCustomerClient)
	customers.On("GetCustomer", mock.Anything, mock.Anything, mock.Anything).Return(&domain.Customer{ID: 42}, nil)

	pub := &capturePublisher{events: make(chan domain.LifecycleEvent, 1)}
	e := NewEmitter(NewBuilder(memory.NewResourceRepository(), customers, staticMerchant{}, fixedTime{time.Now()}, logger.NewNop()), pub)

	a := testAppointment()
	ctx, cancel := context.WithCancel(context.Background())
	e.Emit(ctx, domain.EventCancelled, a)
	cancel()
	a.DurationMinutes = 999

	e.Wait()
	evt := <-pub.events
	assert.Equal(t, domain.EventCancelled, evt.Kind)
	assert.Equal(t, 45, evt.Schedule.DurationMinutes)
}
