package template

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

// Repository репозиторий шаблонов уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActive ищет активный шаблон по тенанту, коду и каналу
func (r *Repository) GetActive(ctx context.Context, tenantID int64, code string, channel domain.Channel) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"code",
		"channel",
		"subject",
		"body",
		"active",
		"created_at",
		"updated_at",
	).
		From("notification_templates").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"code":      code,
			"channel":   channel,
			"active":    true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	var tpl domain.Template
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.ID,
		&tpl.TenantID,
		&tpl.Code,
		&tpl.Channel,
		&tpl.Subject,
		&tpl.Body,
		&tpl.Active,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - scan template: %v", ErrScanRow, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return &tpl, nil
}

// CreateIfMissing вставляет шаблон; при существующем (tenant_id, code, channel) ничего не меняет
func (r *Repository) CreateIfMissing(ctx context.Context, tpl *domain.Template) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notification_templates").
		Columns(
			"tenant_id",
			"code",
			"channel",
			"subject",
			"body",
			"active",
			"created_at",
			"updated_at",
		).
		Values(
			tpl.TenantID,
			tpl.Code,
			tpl.Channel,
			tpl.Subject,
			tpl.Body,
			tpl.Active,
			tpl.CreatedAt,
			tpl.UpdatedAt,
		).
		Suffix("ON CONFLICT (tenant_id, code, channel) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfMissing - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfMissing - insert template: %v", ErrInsertFailed, err)
	}

	return true, nil
}
