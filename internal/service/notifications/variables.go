package notifications

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Variables переменные шаблона из снимка события
func Variables(evt domain.LifecycleEvent) map[string]string {
	staffName := ""
	if evt.Resource.Kind == domain.ResourceKindStaff {
		staffName = evt.Resource.Name
	}

	amount := formatAmount(evt.TotalAmount)

	return map[string]string{
		"customerName":    evt.Customer.Name,
		"appointmentDate": evt.Schedule.Date.Format(domain.DateFormat),
		"appointmentTime": evt.Schedule.StartTime.String(),
		"serviceName":     evt.ServiceNames,
		"resourceName":    evt.Resource.Name,
		"staffName":       staffName,
		"duration":        strconv.Itoa(evt.Schedule.DurationMinutes),
		"totalAmount":     amount,
		"price":           amount,
		"businessName":    evt.Business.Name,
		"businessAddress": evt.Business.Address,
		"businessPhone":   evt.Business.Phone,
		"notes":           evt.Notes,
		"reminderLead":    string(evt.ReminderLead),
	}
}

// formatAmount минимальные единицы -> "123.45"
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
