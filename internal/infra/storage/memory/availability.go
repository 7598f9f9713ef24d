package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AvailabilityRepository in-memory реализация окон и исключений
type AvailabilityRepository struct {
	mu         sync.RWMutex
	windows    map[int64][]domain.AvailabilityWindow
	exceptions []domain.AvailabilityException
	nextID     int64
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{windows: make(map[int64][]domain.AvailabilityWindow)}
}

func (r *AvailabilityRepository) ListWindows(_ context.Context, resourceID int64) ([]*domain.AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.windows[resourceID]
	result := make([]*domain.AvailabilityWindow, 0, len(stored))
	for i := range stored {
		w := stored[i]
		result = append(result, &w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})
	return result, nil
}

func (r *AvailabilityRepository) ReplaceWindows(_ context.Context, resourceID int64, windows []*domain.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]domain.AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		r.nextID++
		w.ID = r.nextID
		w.ResourceID = resourceID
		stored = append(stored, *w)
	}
	r.windows[resourceID] = stored
	return nil
}

func (r *AvailabilityRepository) ListExceptions(_ context.Context, resourceID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Format(domain.DateFormat)
	result := make([]*domain.AvailabilityException, 0)
	for i := range r.exceptions {
		e := r.exceptions[i]
		if e.ResourceID == resourceID && e.Date.Format(domain.DateFormat) == day {
			result = append(result, &e)
		}
	}
	return result, nil
}

func (r *AvailabilityRepository) CreateException(_ context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.exceptions = append(r.exceptions, *e)
	return e, nil
}
