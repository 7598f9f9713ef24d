package merchantservice

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Service модель услуги из MerchantService
type Service struct {
	ID              int64  `json:"id"`
	TenantID        int64  `json:"tenant_id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"` // в минимальных единицах валюты
	DurationMinutes int    `json:"duration_minutes"`
	Active          bool   `json:"active"`
}

// ToAppointmentService денормализует услугу в строку записи
func (s *Service) ToAppointmentService() domain.AppointmentService {
	return domain.AppointmentService{
		ServiceID:       s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}

// BusinessProfile публичные реквизиты тенанта
type BusinessProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (p *BusinessProfile) ToSnapshot() domain.BusinessSnapshot {
	return domain.BusinessSnapshot{
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
	}
}
