package add_availability_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidException   = "некорректное исключение расписания"
	msgNotFound           = "ресурс не найден"
	msgResourceDeleted    = "ресурс удалён"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/availability/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/availability/exceptions - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req AddExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/availability/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	exception, err := req.ToDomain(resourceID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	created, err := h.service.AddException(r.Context(), tenantID, exception)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/availability/exceptions - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrResourceDeleted):
			handlers.RespondConflict(w, msgResourceDeleted)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /resources/{id}/availability/exceptions - Invalid exception: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		default:
			h.logger.Error("POST /resources/{id}/availability/exceptions - Failed to add exception: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/availability/exceptions - Exception added: exception_id=%d, resource_id=%d", created.ID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}
