package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgMissingTenantID   = "отсутствует ID тенанта"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/resources/{resourceId}/availability
// Query params: date (опционально, добавляет исключения на дату)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	windows, err := h.service.GetWindows(r.Context(), tenantID, resourceID)
	if err != nil {
		h.respondError(w, resourceID, err)
		return
	}

	resp := AvailabilityResponse{ResourceID: resourceID, Windows: FromWindows(windows)}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		exceptions, err := h.service.ListExceptions(r.Context(), tenantID, resourceID, date)
		if err != nil {
			h.respondError(w, resourceID, err)
			return
		}
		resp.Exceptions = make([]ExceptionResponse, 0, len(exceptions))
		for _, e := range exceptions {
			resp.Exceptions = append(resp.Exceptions, FromException(e))
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, resourceID int64, err error) {
	if errors.Is(err, availability.ErrResourceNotFound) {
		h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	}
	h.logger.Error("GET /resources/{id}/availability - Failed to load availability: resource_id=%d, error=%v", resourceID, err)
	handlers.RespondInternalError(w)
}
