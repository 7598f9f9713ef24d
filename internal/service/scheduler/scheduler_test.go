package scheduler

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/reminders"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type emitted struct {
	kind domain.EventKind
	id   int64
	lead domain.ReminderLead
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *recordingEmitter) Emit(_ context.Context, kind domain.EventKind, a *domain.Appointment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{kind: kind, id: a.ID})
}

func (e *recordingEmitter) EmitReminder(_ context.Context, a *domain.Appointment, lead domain.ReminderLead) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{kind: domain.EventReminder, id: a.ID, lead: lead})
}

type nopMetrics struct {
	mu   sync.Mutex
	jobs map[string]int
}

func (m *nopMetrics) ObserveTransition(string) {}

func (m *nopMetrics) ObserveJob(job string, _ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = map[string]int{}
	}
	m.jobs[job]++
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

var base = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

// записи в тестах сделаны за неделю до base
var booked = base.AddDate(0, 0, -7)

func addAppointment(t *testing.T, repo *memory.AppointmentRepository, resourceID int64, at time.Time, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()

	a, err := repo.Create(context.Background(), &domain.Appointment{
		TenantID:        1,
		CustomerID:      7,
		ResourceID:      resourceID,
		Date:            time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString(at.Format(domain.TimeFormat)),
		DurationMinutes: 30,
		Status:          status,
		CreatedAt:       booked,
		UpdatedAt:       booked,
	})
	require.NoError(t, err)
	return a
}

func TestOverdueScanner_MarksNoShowAfterGrace(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	overdue := addAppointment(t, repo, 1, base.Add(-25*time.Hour), domain.StatusConfirmed)
	withinGrace := addAppointment(t, repo, 2, base.Add(-23*time.Hour), domain.StatusConfirmed)
	cancelled := addAppointment(t, repo, 3, base.Add(-48*time.Hour), domain.StatusCancelled)

	emitter := &recordingEmitter{}
	scanner := NewOverdueScanner(repo, emitter, &nopMetrics{}, &clock{t: base},
		OverdueConfig{Location: time.UTC, Grace: 24 * time.Hour}, logger.NewNop())

	marked, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	stored, err := repo.GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, stored.Status)
	require.NotNil(t, stored.Notes)
	assert.Contains(t, *stored.Notes, domain.NoShowAuditNote)

	stored, err = repo.GetByID(context.Background(), withinGrace.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	stored, err = repo.GetByID(context.Background(), cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	assert.Equal(t, []emitted{{kind: domain.EventNoShow, id: overdue.ID}}, emitter.events)
}

func TestOverdueScanner_RerunIsHarmless(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	a := addAppointment(t, repo, 1, base.Add(-30*time.Hour), domain.StatusConfirmed)

	emitter := &recordingEmitter{}
	scanner := NewOverdueScanner(repo, emitter, &nopMetrics{}, &clock{t: base},
		OverdueConfig{Location: time.UTC, Grace: 24 * time.Hour}, logger.NewNop())

	for i := 0; i < 3; i++ {
		_, err := scanner.RunOnce(context.Background())
		require.NoError(t, err)
	}

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, stored.Status)
	assert.Equal(t, domain.NoShowAuditNote, *stored.Notes)
	assert.Len(t, emitter.events, 1)
}

func TestOverdueScanner_UsesConfiguredTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	repo := memory.NewAppointmentRepository()
	// 2025-03-02 19:00 в UTC+8 = 2025-03-02 11:00 UTC, дедлайн 2025-03-03 11:00 UTC
	a := addAppointment(t, repo, 1, time.Date(2025, 3, 2, 19, 0, 0, 0, time.UTC), domain.StatusConfirmed)

	scanner := NewOverdueScanner(repo, &recordingEmitter{}, &nopMetrics{}, &clock{t: base},
		OverdueConfig{Location: loc, Grace: 24 * time.Hour}, logger.NewNop())

	marked, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, stored.Status)
}

func newReminderScanner(repo *memory.AppointmentRepository, emitter *recordingEmitter, c *clock) *ReminderScanner {
	return NewReminderScanner(repo, reminders.NewMemoryMarker(0), emitter, c, ReminderConfig{
		Location:  time.UTC,
		LeadLong:  24 * time.Hour,
		LeadShort: time.Hour,
	}, logger.NewNop())
}

func TestReminderScanner_Windows(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	short := addAppointment(t, repo, 1, base.Add(30*time.Minute), domain.StatusConfirmed)
	long := addAppointment(t, repo, 2, base.Add(5*time.Hour), domain.StatusConfirmed)
	addAppointment(t, repo, 3, base.Add(30*time.Hour), domain.StatusConfirmed)
	addAppointment(t, repo, 4, base.Add(-30*time.Minute), domain.StatusConfirmed)
	addAppointment(t, repo, 5, base.Add(2*time.Hour), domain.StatusCancelled)

	emitter := &recordingEmitter{}
	sent, err := newReminderScanner(repo, emitter, &clock{t: base}).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	assert.ElementsMatch(t, []emitted{
		{kind: domain.EventReminder, id: short.ID, lead: domain.ReminderLeadShort},
		{kind: domain.EventReminder, id: long.ID, lead: domain.ReminderLeadLong},
	}, emitter.events)
}

func TestReminderScanner_OneReminderPerLead(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	a := addAppointment(t, repo, 1, base.Add(3*time.Hour), domain.StatusConfirmed)

	emitter := &recordingEmitter{}
	c := &clock{t: base}
	scanner := newReminderScanner(repo, emitter, c)

	for i := 0; i < 3; i++ {
		_, err := scanner.RunOnce(context.Background())
		require.NoError(t, err)
		c.t = c.t.Add(5 * time.Minute)
	}

	// переходит в короткое окно
	c.t = base.Add(2*time.Hour + 30*time.Minute)
	for i := 0; i < 3; i++ {
		_, err := scanner.RunOnce(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, []emitted{
		{kind: domain.EventReminder, id: a.ID, lead: domain.ReminderLeadLong},
		{kind: domain.EventReminder, id: a.ID, lead: domain.ReminderLeadShort},
	}, emitter.events)
}

func TestReminderScanner_LateBookingGetsOnlyShortReminder(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	// бронь за 3 часа до начала, уже внутри 24-часового окна
	a, err := repo.Create(context.Background(), &domain.Appointment{
		TenantID:        1,
		CustomerID:      7,
		ResourceID:      1,
		Date:            time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString(base.Add(3 * time.Hour).Format(domain.TimeFormat)),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
		CreatedAt:       base,
		UpdatedAt:       base,
	})
	require.NoError(t, err)

	emitter := &recordingEmitter{}
	c := &clock{t: base.Add(time.Minute)}
	scanner := newReminderScanner(repo, emitter, c)

	sent, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, emitter.events)

	c.t = base.Add(2*time.Hour + 30*time.Minute)
	sent, err = scanner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []emitted{{kind: domain.EventReminder, id: a.ID, lead: domain.ReminderLeadShort}}, emitter.events)
}

func TestReminderScanner_LeadBoundaries(t *testing.T) {
	s := newReminderScanner(memory.NewAppointmentRepository(), &recordingEmitter{}, &clock{t: base})

	tests := []struct {
		until time.Duration
		lead  domain.ReminderLead
		ok    bool
	}{
		{until: 0, ok: false},
		{until: time.Minute, lead: domain.ReminderLeadShort, ok: true},
		{until: time.Hour, lead: domain.ReminderLeadShort, ok: true},
		{until: time.Hour + time.Second, lead: domain.ReminderLeadLong, ok: true},
		{until: 24 * time.Hour, lead: domain.ReminderLeadLong, ok: true},
		{until: 24*time.Hour + time.Second, ok: false},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatInt(int64(tt.until/time.Second), 10), func(t *testing.T) {
			lead, ok := s.leadFor(tt.until)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lead, lead)
		})
	}
}
