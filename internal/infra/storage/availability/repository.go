package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Repository репозиторий окон доступности и исключений расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWindows возвращает все окна ресурса, упорядоченные по дню и времени
func (r *Repository) ListWindows(ctx context.Context, resourceID int64) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"day_of_week",
		"start_time",
		"end_time",
		"enabled",
	).
		From("availability_windows").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.ResourceID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.Enabled); err != nil {
			return nil, fmt.Errorf("%w: ListWindows - scan window: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWindows - rows iteration: %v", ErrScanRow, err)
	}

	return windows, nil
}

// ReplaceWindows удаляет все окна ресурса и вставляет новые.
// Вызывающий код должен обернуть вызов в транзакцию.
func (r *Repository) ReplaceWindows(ctx context.Context, resourceID int64, windows []*domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("availability_windows").
		Columns("resource_id", "day_of_week", "start_time", "end_time", "enabled")
	for _, w := range windows {
		insert = insert.Values(resourceID, w.DayOfWeek, w.StartTime, w.EndTime, w.Enabled)
	}

	query, args, err = insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for i := 0; rows.Next() && i < len(windows); i++ {
		if err := rows.Scan(&windows[i].ID); err != nil {
			return fmt.Errorf("%w: ReplaceWindows - scan id: %v", ErrScanRow, err)
		}
		windows[i].ResourceID = resourceID
	}

	return rows.Err()
}

// ListExceptions возвращает исключения ресурса на дату
func (r *Repository) ListExceptions(ctx context.Context, resourceID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"exception_date",
		"kind",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From("availability_exceptions").
		Where(squirrel.Eq{"resource_id": resourceID, "exception_date": date.Format(domain.DateFormat)}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		var (
			e          domain.AvailabilityException
			start, end *types.TimeString
			createdAt  sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.Date, &e.Kind, &start, &end, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListExceptions - scan exception: %v", ErrScanRow, err)
		}
		e.StartTime = start
		e.EndTime = end
		e.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - rows iteration: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// CreateException сохраняет исключение расписания
func (r *Repository) CreateException(ctx context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns("resource_id", "exception_date", "kind", "start_time", "end_time", "reason").
		Values(e.ResourceID, e.Date.Format(domain.DateFormat), e.Kind, e.StartTime, e.EndTime, e.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}
	e.CreatedAt = createdAt.Time

	return e, nil
}
