package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
)

// AppointmentRepository in-memory реализация репозитория записей.
// Повторяет ограничения PostgreSQL: запрет пересечений активных записей
// на ресурсе и уникальность ключа идемпотентности.
type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[int64]domain.Appointment
	nextID       int64
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: make(map[int64]domain.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.IdempotencyKey != nil {
		for _, existing := range r.appointments {
			if existing.TenantID == a.TenantID && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *a.IdempotencyKey {
				return nil, appointmentRepo.ErrDuplicateIdempotencyKey
			}
		}
	}
	if r.overlapsLocked(a, 0) {
		return nil, appointmentRepo.ErrOverlap
	}

	r.nextID++
	a.ID = r.nextID
	r.appointments[a.ID] = clone(*a)
	return a, nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	c := clone(a)
	return &c, nil
}

func (r *AppointmentRepository) GetByIdempotencyKey(_ context.Context, tenantID int64, key string) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.TenantID == tenantID && a.IdempotencyKey != nil && *a.IdempotencyKey == key {
			c := clone(a)
			return &c, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *AppointmentRepository) GetByResourceAndDate(
	_ context.Context,
	resourceID int64,
	date time.Time,
	statuses []domain.AppointmentStatus,
) ([]*domain.Appointment, error) {
	day := date.Format(domain.DateFormat)
	return r.filter(func(a *domain.Appointment) bool {
		return a.ResourceID == resourceID && a.Date.Format(domain.DateFormat) == day && hasStatus(statuses, a.Status)
	}), nil
}

func (r *AppointmentRepository) GetByStatus(_ context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return r.filter(func(a *domain.Appointment) bool { return a.Status == status }), nil
}

func (r *AppointmentRepository) GetByStatusAndDateRange(
	_ context.Context,
	status domain.AppointmentStatus,
	from, to time.Time,
) ([]*domain.Appointment, error) {
	fromDay, toDay := from.Format(domain.DateFormat), to.Format(domain.DateFormat)
	return r.filter(func(a *domain.Appointment) bool {
		day := a.Date.Format(domain.DateFormat)
		return a.Status == status && day >= fromDay && day <= toDay
	}), nil
}

func (r *AppointmentRepository) GetByCustomer(_ context.Context, tenantID, customerID int64) ([]*domain.Appointment, error) {
	return r.filter(func(a *domain.Appointment) bool {
		return a.TenantID == tenantID && a.CustomerID == customerID
	}), nil
}

func (r *AppointmentRepository) Update(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[a.ID]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if stored.Status != domain.StatusConfirmed {
		return appointmentRepo.ErrStatusChanged
	}

	candidate := stored
	candidate.Date = a.Date
	candidate.StartTime = a.StartTime
	candidate.DurationMinutes = a.DurationMinutes
	if candidate.Status.IsBlocking() && r.overlapsLocked(&candidate, a.ID) {
		return appointmentRepo.ErrOverlap
	}

	candidate.Notes = a.Notes
	candidate.UpdatedAt = a.UpdatedAt
	r.appointments[a.ID] = clone(candidate)
	return nil
}

func (r *AppointmentRepository) TransitionStatus(_ context.Context, a *domain.Appointment, from domain.AppointmentStatus, seenUpdatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[a.ID]
	if !ok || stored.Status != from || !stored.UpdatedAt.Equal(seenUpdatedAt) {
		return appointmentRepo.ErrStatusChanged
	}

	stored.Status = a.Status
	stored.Notes = a.Notes
	stored.Rating = a.Rating
	stored.Review = a.Review
	stored.UpdatedAt = a.UpdatedAt
	r.appointments[a.ID] = clone(stored)
	return nil
}

func (r *AppointmentRepository) filter(match func(a *domain.Appointment) bool) []*domain.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		c := clone(a)
		if match(&c) {
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// overlapsLocked проверяет пересечение с активными записями ресурса, кроме excludeID
func (r *AppointmentRepository) overlapsLocked(a *domain.Appointment, excludeID int64) bool {
	if !a.Status.IsBlocking() {
		return false
	}
	candidate, err := a.Range()
	if err != nil {
		return false
	}
	day := a.Date.Format(domain.DateFormat)
	for id, existing := range r.appointments {
		if id == excludeID || existing.ResourceID != a.ResourceID || !existing.Status.IsBlocking() {
			continue
		}
		if existing.Date.Format(domain.DateFormat) != day {
			continue
		}
		other, err := existing.Range()
		if err == nil && candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

func hasStatus(statuses []domain.AppointmentStatus, status domain.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func clone(a domain.Appointment) domain.Appointment {
	if a.Services != nil {
		a.Services = append([]domain.AppointmentService(nil), a.Services...)
	}
	return a
}
