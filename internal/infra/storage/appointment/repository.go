package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL
const (
	pgExclusionViolation  = "23P01"
	pgUniqueViolation     = "23505"
	pgSerializationFailed = "40001"
)

var columns = []string{
	"id",
	"tenant_id",
	"customer_id",
	"resource_id",
	"resource_kind",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"total_amount",
	"status",
	"services",
	"notes",
	"rating",
	"review",
	"idempotency_key",
	"created_at",
	"updated_at",
}

// serviceLine JSON-представление строки услуги в колонке services
type serviceLine struct {
	ServiceID       int64  `json:"service_id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись.
// Пересечение с активной записью того же ресурса отсекается ограничением
// appointments_no_overlap и возвращается как ErrOverlap.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	services, err := encodeServices(a.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode services: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"tenant_id",
			"customer_id",
			"resource_id",
			"resource_kind",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"total_amount",
			"status",
			"services",
			"notes",
			"idempotency_key",
			"created_at",
			"updated_at",
		).
		Values(
			a.TenantID,
			a.CustomerID,
			a.ResourceID,
			a.ResourceKind,
			a.Date.Format(domain.DateFormat),
			a.StartTime,
			a.DurationMinutes,
			a.TotalAmount,
			a.Status,
			services,
			a.Notes,
			a.IdempotencyKey,
			a.CreatedAt,
			a.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		if mapped := mapPQError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByIdempotencyKey ищет запись, созданную ранее с тем же ключом идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, tenantID int64, key string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"tenant_id": tenantID, "idempotency_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByResourceAndDate возвращает записи ресурса на дату с указанными статусами.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetByResourceAndDate(
	ctx context.Context,
	resourceID int64,
	date time.Time,
	statuses []domain.AppointmentStatus,
) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{
			"resource_id":      resourceID,
			"appointment_date": date.Format(domain.DateFormat),
		}).
		OrderBy("start_time ASC")

	if len(statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "GetByResourceAndDate", builder)
}

// GetByStatus возвращает все записи с указанным статусом
func (r *Repository) GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"status": status}).
		OrderBy("appointment_date ASC", "start_time ASC")

	return r.query(ctx, "GetByStatus", builder)
}

// GetByStatusAndDateRange возвращает записи со статусом в диапазоне дат [from, to] включительно
func (r *Repository) GetByStatusAndDateRange(
	ctx context.Context,
	status domain.AppointmentStatus,
	from, to time.Time,
) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"status": status}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"appointment_date": to.Format(domain.DateFormat)}).
		OrderBy("appointment_date ASC", "start_time ASC")

	return r.query(ctx, "GetByStatusAndDateRange", builder)
}

// GetByCustomer возвращает все записи клиента в рамках тенанта
func (r *Repository) GetByCustomer(ctx context.Context, tenantID, customerID int64) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"tenant_id": tenantID, "customer_id": customerID}).
		OrderBy("appointment_date DESC", "start_time DESC")

	return r.query(ctx, "GetByCustomer", builder)
}

// Update сохраняет изменяемые поля записи (детали и перенос), статус не трогает.
// Менять можно только подтверждённую запись, иначе возвращается ErrStatusChanged.
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("appointment_date", a.Date.Format(domain.DateFormat)).
		Set("start_time", a.StartTime).
		Set("duration_minutes", a.DurationMinutes).
		Set("notes", a.Notes).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID, "status": domain.StatusConfirmed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapPQError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

// TransitionStatus переводит запись в a.Status, только если текущий статус равен from
// и запись не менялась после чтения (updated_at равен seenUpdatedAt).
// Вместе со статусом сохраняются заметки, оценка и отзыв.
// Если запись уже изменена другим процессом, возвращается ErrStatusChanged.
func (r *Repository) TransitionStatus(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, seenUpdatedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", a.Status).
		Set("notes", a.Notes).
		Set("rating", a.Rating).
		Set("review", a.Review).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID, "status": from, "updated_at": seenUpdatedAt}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if mapped := mapPQError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		services             []byte
		rating               sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.CustomerID,
		&a.ResourceID,
		&a.ResourceKind,
		&a.Date,
		&a.StartTime,
		&a.DurationMinutes,
		&a.TotalAmount,
		&a.Status,
		&services,
		&a.Notes,
		&rating,
		&a.Review,
		&a.IdempotencyKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		v := int(rating.Int64)
		a.Rating = &v
	}
	if a.Services, err = decodeServices(services); err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func encodeServices(services []domain.AppointmentService) ([]byte, error) {
	lines := make([]serviceLine, 0, len(services))
	for _, s := range services {
		lines = append(lines, serviceLine{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return json.Marshal(lines)
}

func decodeServices(raw []byte) ([]domain.AppointmentService, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var lines []serviceLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	services := make([]domain.AppointmentService, 0, len(lines))
	for _, l := range lines {
		services = append(services, domain.AppointmentService{
			ServiceID:       l.ServiceID,
			Name:            l.Name,
			Price:           l.Price,
			DurationMinutes: l.DurationMinutes,
		})
	}
	return services, nil
}

// mapPQError переводит ошибки ограничений PostgreSQL в доменные конфликты
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch string(pqErr.Code) {
	case pgExclusionViolation:
		return fmt.Errorf("%w: %s", ErrOverlap, pqErr.Constraint)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateIdempotencyKey, pqErr.Constraint)
	case pgSerializationFailed:
		return fmt.Errorf("%w: %v", ErrSerialization, pqErr.Message)
	}
	return nil
}
