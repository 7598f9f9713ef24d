package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
)

// IdempotencyKeyHeader заголовок ключа идемпотентности
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные записи"
	msgPastAppointment    = "время записи уже прошло"
	msgResourceNotFound   = "ресурс не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgSlotNotAvailable   = "выбранное время недоступно"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: tenant_id=%d, resource_id=%d, %s %s",
				tenantID, req.ResourceID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrResourceNotFound):
			h.logger.Warn("POST /appointments - Resource not found: tenant_id=%d, resource_id=%d", tenantID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: tenant_id=%d, service_ids=%v", tenantID, req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: tenant_id=%d, service_ids=%v", tenantID, req.ServiceIDs)
			handlers.RespondUnprocessable(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrPastAppointment):
			h.logger.Warn("POST /appointments - Appointment in the past: tenant_id=%d, %s %s", tenantID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgPastAppointment)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: tenant_id=%d, resource_id=%d, error=%v",
				tenantID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, tenant_id=%d, replayed=%t",
		result.Appointment.ID, tenantID, result.Replayed)
	handlers.RespondJSON(w, status, handlers.FromAppointment(result.Appointment))
}
