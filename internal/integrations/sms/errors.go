package sms

import "errors"

var (
	// ErrNotConfigured возвращается, когда адрес провайдера не задан
	ErrNotConfigured = errors.New("sms: provider is not configured")

	// ErrSendFailed возвращается при неуспешном ответе провайдера
	ErrSendFailed = errors.New("sms: send failed")
)
