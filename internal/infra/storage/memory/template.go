package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/template"
)

type templateKey struct {
	tenantID int64
	code     string
	channel  domain.Channel
}

// TemplateRepository in-memory хранилище шаблонов
type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[templateKey]domain.Template
	nextID    int64
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{templates: make(map[templateKey]domain.Template)}
}

// Put добавляет или заменяет шаблон
func (r *TemplateRepository) Put(tpl *domain.Template) *domain.Template {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	tpl.ID = r.nextID
	r.templates[templateKey{tenantID: tpl.TenantID, code: tpl.Code, channel: tpl.Channel}] = *tpl
	return tpl
}

// CreateIfMissing добавляет шаблон, если ключ (tenant, code, channel) свободен
func (r *TemplateRepository) CreateIfMissing(_ context.Context, tpl *domain.Template) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := templateKey{tenantID: tpl.TenantID, code: tpl.Code, channel: tpl.Channel}
	if _, ok := r.templates[key]; ok {
		return false, nil
	}
	r.nextID++
	tpl.ID = r.nextID
	r.templates[key] = *tpl
	return true, nil
}

func (r *TemplateRepository) GetActive(_ context.Context, tenantID int64, code string, channel domain.Channel) (*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[templateKey{tenantID: tenantID, code: code, channel: channel}]
	if !ok || !tpl.Active {
		return nil, templateRepo.ErrTemplateNotFound
	}
	return &tpl, nil
}
