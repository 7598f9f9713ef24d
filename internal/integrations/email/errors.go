package email

import "errors"

var (
	// ErrSendFailed возвращается при ошибке SMTP
	ErrSendFailed = errors.New("email: send failed")
)
