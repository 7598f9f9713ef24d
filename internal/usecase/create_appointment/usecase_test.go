package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	availabilityModels "github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2025-03-03 is a Monday
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type mockMerchantClient struct {
	mock.Mock
}

func (m *mockMerchantClient) GetService(ctx context.Context, tenantID, serviceID int64) (*merchantservice.Service, error) {
	args := m.Called(ctx, tenantID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantservice.Service), args.Error(1)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.EventKind
}

func (e *recordingEmitter) Emit(_ context.Context, kind domain.EventKind, _ *domain.Appointment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, kind)
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTransition(string) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	uc           *UseCase
	merchant     *mockMerchantClient
	emitter      *recordingEmitter
	appointments *memory.AppointmentRepository
	resourceID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	resources := memory.NewResourceRepository()
	res := resources.Put(&domain.Resource{TenantID: 1, Name: "Alex", Kind: domain.ResourceKindStaff, Status: domain.ResourceActive})

	appointments := memory.NewAppointmentRepository()
	availabilitySvc := availability.NewService(
		resources, memory.NewAvailabilityRepository(), appointments, txmanager.NewNoop(), availability.RealTimeProvider{}, logger.NewNop(),
	)
	_, err := availabilitySvc.ReplaceWindows(context.Background(), 1, res.ID, []availabilityModels.WindowInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "18:00", Enabled: true},
	})
	require.NoError(t, err)

	merchant := new(mockMerchantClient)
	merchant.On("GetService", mock.Anything, int64(1), int64(10)).
		Return(&merchantservice.Service{ID: 10, Name: "Haircut", Price: 2500, DurationMinutes: 30, Active: true}, nil).Maybe()
	merchant.On("GetService", mock.Anything, int64(1), int64(11)).
		Return(&merchantservice.Service{ID: 11, Name: "Beard trim", Price: 1500, DurationMinutes: 15, Active: true}, nil).Maybe()
	merchant.On("GetService", mock.Anything, int64(1), int64(99)).
		Return(nil, merchantservice.ErrServiceNotFound).Maybe()

	emitter := &recordingEmitter{}
	uc := NewUseCase(
		appointments, resources, availabilitySvc, merchant, keylock.New(), txmanager.NewNoop(), emitter, nopMetrics{},
		Config{Location: time.UTC, PastBookingGrace: 15 * time.Minute},
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime{monday.Add(8 * time.Hour)}

	return &fixture{uc: uc, merchant: merchant, emitter: emitter, appointments: appointments, resourceID: res.ID}
}

func (f *fixture) request(start string) *Request {
	return &Request{
		TenantID:   1,
		CustomerID: 42,
		ResourceID: f.resourceID,
		Date:       monday,
		StartTime:  types.TimeString(start),
		ServiceIDs: []int64{10, 11},
	}
}

func TestExecute_CreatesConfirmedAppointment(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request("10:00"))
	require.NoError(t, err)

	a := resp.Appointment
	assert.False(t, resp.Replayed)
	assert.NotZero(t, a.ID)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, 45, a.DurationMinutes)
	assert.Equal(t, int64(4000), a.TotalAmount)
	assert.Equal(t, domain.ResourceKindStaff, a.ResourceKind)
	assert.Equal(t, "Haircut, Beard trim", a.ServiceNames())
	assert.Equal(t, []domain.EventKind{domain.EventConfirmed}, f.emitter.events)
}

func TestExecute_ExplicitDurationOverridesServices(t *testing.T) {
	f := newFixture(t)
	req := f.request("10:00")
	req.DurationMinutes = 60

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.Appointment.DurationMinutes)
	assert.Equal(t, int64(4000), resp.Appointment.TotalAmount)
}

func TestExecute_SlotNotAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("10:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Execute(ctx, f.request("17:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable, "ends after the window closes")

	resp, err := f.uc.Execute(ctx, f.request("10:45"))
	require.NoError(t, err, "touching the previous appointment is allowed")
	assert.NotZero(t, resp.Appointment.ID)

	assert.Equal(t, 2, f.emitter.count())
}

func TestExecute_IdempotencyKeyReplays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request("11:00")
	req.IdempotencyKey = ptr.Ptr("req-1")

	first, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)

	second, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Appointment.ID, second.Appointment.ID)
	assert.Equal(t, 1, f.emitter.count())
}

func TestExecute_ConcurrentCreatesYieldOneWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := f.request("14:00")
			req.CustomerID = int64(100 + i)
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	stored, err := f.appointments.GetByResourceAndDate(context.Background(), f.resourceID, monday, domain.BlockingStatuses)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"missing tenant", func(r *Request) { r.TenantID = 0 }, ErrInvalidInput},
		{"bad start time", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"no duration and no services", func(r *Request) { r.ServiceIDs = nil }, ErrInvalidInput},
		{"negative duration", func(r *Request) { r.DurationMinutes = -5 }, ErrInvalidInput},
		{"past start", func(r *Request) { r.Date = monday.AddDate(0, 0, -7) }, ErrPastAppointment},
		{"unknown service", func(r *Request) { r.ServiceIDs = []int64{99} }, ErrServiceNotFound},
		{"unknown resource", func(r *Request) { r.ResourceID = 999 }, ErrResourceNotFound},
		{"ends after midnight", func(r *Request) { r.StartTime = "23:50"; r.DurationMinutes = 30 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("10:00")
			tt.mutate(req)
			_, err := f.uc.Execute(ctx, req)
			assert.ErrorIs(t, err, tt.want, fmt.Sprintf("got %v", err))
		})
	}

	assert.Zero(t, f.emitter.count())
}

func TestExecute_PastGraceAllowsSlightlyLateStart(t *testing.T) {
	f := newFixture(t)
	f.uc.timeProvider = fixedTime{monday.Add(9*time.Hour + 10*time.Minute)}

	_, err := f.uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)
}
