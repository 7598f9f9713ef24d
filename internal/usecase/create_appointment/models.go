package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Config параметры бронирования
type Config struct {
	Location         *time.Location // часовой пояс, в котором заданы дата и время записи
	PastBookingGrace time.Duration  // насколько время начала может отставать от текущего
}

// Request модель запроса на создание записи
type Request struct {
	TenantID        int64
	CustomerID      int64
	ResourceID      int64
	Date            time.Time        // Дата записи (без времени)
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // 0 = сумма длительностей услуг
	ServiceIDs      []int64
	Notes           *string
	IdempotencyKey  *string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Replayed    bool // true, если запись уже была создана с тем же ключом идемпотентности
}
