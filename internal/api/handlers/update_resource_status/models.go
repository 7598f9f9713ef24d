package update_resource_status

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdateStatusRequest HTTP request model; status = deleted выполняет мягкое удаление
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ResourceResponse HTTP response model
type ResourceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromDomain(r *domain.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:        r.ID,
		Name:      r.Name,
		Kind:      string(r.Kind),
		Capacity:  r.Capacity,
		Status:    string(r.Status),
		UpdatedAt: r.UpdatedAt,
	}
}
