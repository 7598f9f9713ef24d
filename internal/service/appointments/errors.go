package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в тенанте
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrInvalidTransition возвращается, когда переход статуса запрещён
	ErrInvalidTransition = fmt.Errorf("%w: appointment status does not allow this operation", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда новое время записи занято или вне расписания
	ErrSlotNotAvailable = fmt.Errorf("%w: slot is not available", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
