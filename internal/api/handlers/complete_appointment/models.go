package complete_appointment

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// CompleteAppointmentRequest HTTP request model
type CompleteAppointmentRequest struct {
	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CompleteAppointmentRequest) ToServiceRequest() *models.CompleteRequest {
	return &models.CompleteRequest{
		Rating: r.Rating,
		Review: r.Review,
	}
}
