package resources

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден в тенанте
	ErrResourceNotFound = fmt.Errorf("%w: resource not found", domain.ErrNotFound)

	// ErrInvalidStatus возвращается при неизвестном статусе ресурса
	ErrInvalidStatus = fmt.Errorf("%w: invalid resource status", domain.ErrValidation)

	// ErrResourceDeleted возвращается при попытке изменить статус удалённого ресурса
	ErrResourceDeleted = fmt.Errorf("%w: resource is deleted", domain.ErrInvalidTransition)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resources service: internal error")
)
