package retry_notifications

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/scheduler"
)

const (
	msgShuttingDown = "сервис останавливается, повторите позже"
)

type Handler struct {
	queue  JobQueue
	job    string
	logger Logger
}

// RetryResponse HTTP response model
type RetryResponse struct {
	Job    string `json:"job"`
	Status string `json:"status"`
}

func NewHandler(queue JobQueue, job string, logger Logger) *Handler {
	return &Handler{
		queue:  queue,
		job:    job,
		logger: logger,
	}
}

// Handle POST /api/v1/notifications/retry
// Ставит проход повторной доставки в фон и сразу отвечает 202.
// Если проход уже идёт, новый запуск присоединяется к нему.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.queue.Enqueue(h.job); err != nil {
		if errors.Is(err, scheduler.ErrStopped) {
			h.logger.Warn("POST /notifications/retry - Runner stopped")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgShuttingDown)
			return
		}
		h.logger.Error("POST /notifications/retry - Failed to enqueue retry pass: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /notifications/retry - Retry pass enqueued")
	handlers.RespondJSON(w, http.StatusAccepted, RetryResponse{Job: h.job, Status: "accepted"})
}
