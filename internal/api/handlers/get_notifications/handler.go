package get_notifications

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgMissingTenantID = "отсутствует ID тенанта"
	msgInvalidParams   = "некорректные параметры запроса"
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

// Handle GET /api/v1/notifications
// Query params: status, channel, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	q := r.URL.Query()
	filter, err := ToFilter(tenantID, q.Get("status"), q.Get("channel"), q.Get("limit"), q.Get("offset"))
	if err != nil {
		h.logger.Warn("GET /notifications - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	records, err := h.queries.ListByTenant(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /notifications - Failed to list notifications: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromNotifications(records))
}
