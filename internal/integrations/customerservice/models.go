package customerservice

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Customer модель клиента из CustomerService
type Customer struct {
	ID                      int64  `json:"id"`
	TenantID                int64  `json:"tenant_id"`
	FirstName               string `json:"first_name"`
	LastName                string `json:"last_name"`
	Phone                   string `json:"phone"`
	Email                   string `json:"email"`
	CommunicationPreference string `json:"communication_preference"` // SMS, EMAIL, PHONE
}

// ToDomain преобразует ответ сервиса в доменную модель
func (c *Customer) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:         c.ID,
		TenantID:   c.TenantID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Phone:      c.Phone,
		Email:      c.Email,
		Preference: domain.CommunicationPreference(c.CommunicationPreference),
	}
}
