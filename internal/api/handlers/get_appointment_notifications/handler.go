package get_appointment_notifications

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgMissingTenantID      = "отсутствует ID тенанта"
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	queries NotificationQueries
	logger  Logger
}

func NewHandler(queries NotificationQueries, logger Logger) *Handler {
	return &Handler{
		queries: queries,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}/notifications
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id}/notifications - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	records, err := h.queries.ListByAppointment(r.Context(), tenantID, appointmentID)
	if err != nil {
		h.logger.Error("GET /appointments/{id}/notifications - Failed to list: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromNotifications(records))
}
