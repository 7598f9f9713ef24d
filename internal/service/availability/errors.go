package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidTimeRange возвращается, когда конец интервала не позже начала
	ErrInvalidTimeRange = fmt.Errorf("%w: invalid time range", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных окнах или исключениях
	ErrInvalidInput = fmt.Errorf("%w: invalid availability input", domain.ErrValidation)

	// ErrResourceNotFound возвращается, когда ресурс не найден в тенанте
	ErrResourceNotFound = fmt.Errorf("%w: resource not found", domain.ErrNotFound)

	// ErrResourceDeleted возвращается при изменении расписания удалённого ресурса
	ErrResourceDeleted = fmt.Errorf("%w: resource is deleted", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
