package get_customer_stats

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgMissingTenantID   = "отсутствует ID тенанта"
	msgInvalidCustomerID = "некорректный ID клиента"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/appointment-stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	customerID, err := strconv.ParseInt(mux.Vars(r)["customerId"], 10, 64)
	if err != nil || customerID <= 0 {
		h.logger.Warn("GET /customers/{id}/appointment-stats - Invalid customer ID: %s", mux.Vars(r)["customerId"])
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	stats, err := h.service.CustomerStats(r.Context(), tenantID, customerID)
	if err != nil {
		h.logger.Error("GET /customers/{id}/appointment-stats - Failed to build stats: customer_id=%d, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(stats))
}
