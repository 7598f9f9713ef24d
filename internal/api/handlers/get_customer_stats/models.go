package get_customer_stats

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// CustomerStatsResponse HTTP response model
type CustomerStatsResponse struct {
	CustomerID    int64   `json:"customerId"`
	Total         int     `json:"total"`
	Completed     int     `json:"completed"`
	Cancelled     int     `json:"cancelled"`
	NoShow        int     `json:"noShow"`
	Upcoming      int     `json:"upcoming"`
	TotalSpent    int64   `json:"totalSpent"`
	AverageRating float64 `json:"averageRating"`
	RatedCount    int     `json:"ratedCount"`
}

func FromDomain(s *domain.CustomerAppointmentStats) *CustomerStatsResponse {
	return &CustomerStatsResponse{
		CustomerID:    s.CustomerID,
		Total:         s.Total,
		Completed:     s.Completed,
		Cancelled:     s.Cancelled,
		NoShow:        s.NoShow,
		Upcoming:      s.Upcoming,
		TotalSpent:    s.TotalSpent,
		AverageRating: s.AverageRating,
		RatedCount:    s.RatedCount,
	}
}
