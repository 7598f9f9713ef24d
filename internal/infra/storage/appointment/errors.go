package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment.repository: appointment not found", domain.ErrNotFound)

	// ErrOverlap возвращается при нарушении ограничения исключения (пересечение записей на ресурсе)
	ErrOverlap = fmt.Errorf("%w: appointment.repository: overlapping appointment", domain.ErrConflict)

	// ErrSerialization возвращается при конфликте сериализуемых транзакций
	ErrSerialization = fmt.Errorf("%w: appointment.repository: serialization failure", domain.ErrConflict)

	// ErrDuplicateIdempotencyKey возвращается, когда запись с таким ключом идемпотентности уже существует
	ErrDuplicateIdempotencyKey = fmt.Errorf("%w: appointment.repository: duplicate idempotency key", domain.ErrConflict)

	// ErrStatusChanged возвращается, когда статус записи изменился конкурентно
	ErrStatusChanged = fmt.Errorf("%w: appointment.repository: status changed concurrently", domain.ErrInvalidTransition)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
