package get_notifications

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ToFilter собирает фильтр журнала из query-параметров status, channel, limit, offset
func ToFilter(tenantID int64, statusStr, channelStr, limitStr, offsetStr string) (domain.NotificationFilter, error) {
	filter := domain.NotificationFilter{TenantID: tenantID}

	if statusStr != "" {
		status := domain.NotificationStatus(statusStr)
		switch status {
		case domain.NotificationPending, domain.NotificationSent, domain.NotificationFailed, domain.NotificationCancelled:
		default:
			return filter, fmt.Errorf("unknown status %q", statusStr)
		}
		filter.Status = &status
	}

	if channelStr != "" {
		channel := domain.Channel(channelStr)
		if channel != domain.ChannelSMS && channel != domain.ChannelEmail {
			return filter, fmt.Errorf("unknown channel %q", channelStr)
		}
		filter.Channel = &channel
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", limitStr)
		}
		filter.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filter, fmt.Errorf("invalid offset %q", offsetStr)
		}
		filter.Offset = offset
	}

	return filter, nil
}
