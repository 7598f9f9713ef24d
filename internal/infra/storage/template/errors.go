package template

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrTemplateNotFound возвращается, когда активный шаблон не найден
	ErrTemplateNotFound = fmt.Errorf("%w: template.repository: template not found", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("template.repository: failed to build query")

	// ErrInsertFailed возвращается при ошибке вставки шаблона
	ErrInsertFailed = errors.New("template.repository: failed to insert template")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("template.repository: failed to scan row")
)
