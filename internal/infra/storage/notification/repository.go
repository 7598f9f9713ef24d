package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const defaultListLimit = 50

var columns = []string{
	"id",
	"tenant_id",
	"template_code",
	"channel",
	"recipient",
	"subject",
	"body",
	"status",
	"error_message",
	"retryable",
	"retry_count",
	"business_id",
	"business_type",
	"created_at",
	"last_attempt_at",
	"sent_at",
}

// Repository журнал уведомлений. Записи только добавляются и обновляются.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись уведомления
func (r *Repository) Create(ctx context.Context, n *domain.NotificationRecord) (*domain.NotificationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notification_records").
		Columns(
			"tenant_id",
			"template_code",
			"channel",
			"recipient",
			"subject",
			"body",
			"status",
			"error_message",
			"retryable",
			"retry_count",
			"business_id",
			"business_type",
			"created_at",
			"last_attempt_at",
			"sent_at",
		).
		Values(
			n.TenantID,
			n.TemplateCode,
			n.Channel,
			n.Recipient,
			n.Subject,
			n.Body,
			n.Status,
			n.ErrorMessage,
			n.Retryable,
			n.RetryCount,
			n.BusinessID,
			n.BusinessType,
			n.CreatedAt,
			n.LastAttemptAt,
			n.SentAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return n, nil
}

// Update сохраняет результат попытки доставки
func (r *Repository) Update(ctx context.Context, n *domain.NotificationRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notification_records").
		Set("status", n.Status).
		Set("subject", n.Subject).
		Set("body", n.Body).
		Set("error_message", n.ErrorMessage).
		Set("retryable", n.Retryable).
		Set("retry_count", n.RetryCount).
		Set("last_attempt_at", n.LastAttemptAt).
		Set("sent_at", n.SentAt).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.NotificationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("notification_records").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	n, err := scanRecord(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan record: %v", ErrScanRow, err)
	}

	return n, nil
}

// GetRetryable возвращает упавшие записи, которые ещё можно повторить.
// maxRetryCount = 0 означает отсутствие ограничения.
func (r *Repository) GetRetryable(ctx context.Context, maxRetryCount, limit int) ([]*domain.NotificationRecord, error) {
	builder := psqlbuilder.Select(columns...).
		From("notification_records").
		Where(squirrel.Eq{"status": domain.NotificationFailed, "retryable": true}).
		OrderBy("last_attempt_at ASC NULLS FIRST", "id ASC")

	if maxRetryCount > 0 {
		builder = builder.Where(squirrel.Lt{"retry_count": maxRetryCount})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.query(ctx, "GetRetryable", builder)
}

// GetByBusinessID возвращает историю уведомлений по бизнес-объекту (например, записи на приём)
func (r *Repository) GetByBusinessID(ctx context.Context, tenantID int64, businessType, businessID string) ([]*domain.NotificationRecord, error) {
	builder := psqlbuilder.Select(columns...).
		From("notification_records").
		Where(squirrel.Eq{
			"tenant_id":     tenantID,
			"business_type": businessType,
			"business_id":   businessID,
		}).
		OrderBy("created_at ASC", "id ASC")

	return r.query(ctx, "GetByBusinessID", builder)
}

// GetByTenant возвращает журнал уведомлений тенанта с фильтрами и пагинацией
func (r *Repository) GetByTenant(ctx context.Context, filter domain.NotificationFilter) ([]*domain.NotificationRecord, error) {
	builder := psqlbuilder.Select(columns...).
		From("notification_records").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Channel != nil {
		builder = builder.Where(squirrel.Eq{"channel": *filter.Channel})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	builder = builder.Limit(uint64(limit)).Offset(uint64(filter.Offset))

	return r.query(ctx, "GetByTenant", builder)
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.NotificationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	records := make([]*domain.NotificationRecord, 0)
	for rows.Next() {
		n, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan record: %v", ErrScanRow, op, err)
		}
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return records, nil
}

func scanRecord(row rowScanner) (*domain.NotificationRecord, error) {
	var (
		n                   domain.NotificationRecord
		createdAt           sql.NullTime
		lastAttempt, sentAt sql.NullTime
	)

	err := row.Scan(
		&n.ID,
		&n.TenantID,
		&n.TemplateCode,
		&n.Channel,
		&n.Recipient,
		&n.Subject,
		&n.Body,
		&n.Status,
		&n.ErrorMessage,
		&n.Retryable,
		&n.RetryCount,
		&n.BusinessID,
		&n.BusinessType,
		&createdAt,
		&lastAttempt,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}

	n.CreatedAt = createdAt.Time
	if lastAttempt.Valid {
		n.LastAttemptAt = &lastAttempt.Time
	}
	if sentAt.Valid {
		n.SentAt = &sentAt.Time
	}

	return &n, nil
}
