package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_appointment: invalid input data", domain.ErrValidation)

	// ErrPastAppointment возвращается, когда время начала раньше допустимого
	ErrPastAppointment = fmt.Errorf("%w: create_appointment: appointment starts in the past", domain.ErrValidation)

	// ErrResourceNotFound возвращается, когда ресурс не найден в тенанте
	ErrResourceNotFound = fmt.Errorf("%w: create_appointment: resource not found", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: create_appointment: service not found", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга снята с продажи
	ErrServiceInactive = fmt.Errorf("%w: create_appointment: service is not active", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда интервал занят, вне расписания или ресурс недоступен
	ErrSlotNotAvailable = fmt.Errorf("%w: create_appointment: slot is not available", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
