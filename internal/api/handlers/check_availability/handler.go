package check_availability

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
	msgMissingTenantID   = "отсутствует ID тенанта"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса: нужны date, start и end"
	msgInvalidTimeRange  = "некорректный интервал времени"
	msgNotFound          = "ресурс не найден"
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

// Handle GET /api/v1/resources/{resourceId}/availability/check
// Query params: date, start, end
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability/check - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	q := r.URL.Query()
	req, err := ToServiceRequest(tenantID, resourceID, q.Get("date"), q.Get("start"), q.Get("end"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability/check - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	verdict, err := h.service.Check(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("GET /resources/{id}/availability/check - Failed to check: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromVerdict(verdict))
}
