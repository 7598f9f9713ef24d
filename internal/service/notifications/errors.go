package notifications

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrTemplateNotFound нет активного шаблона для (тенант, код, канал)
	ErrTemplateNotFound = fmt.Errorf("%w: template not found", domain.ErrConfiguration)

	// ErrInvalidRecipient у клиента нет корректного адреса для выбранного канала
	ErrInvalidRecipient = fmt.Errorf("%w: invalid recipient", domain.ErrValidation)

	// ErrDeliveryTimeout провайдер не ответил за отведённое время
	ErrDeliveryTimeout = fmt.Errorf("%w: provider timed out", domain.ErrDelivery)

	// ErrProviderFailed провайдер вернул ошибку
	ErrProviderFailed = fmt.Errorf("%w: provider failed", domain.ErrDelivery)

	// ErrProviderPanic провайдер завершился паникой
	ErrProviderPanic = fmt.Errorf("%w: provider panicked", domain.ErrDelivery)

	// ErrUnsupportedChannel для канала не настроен провайдер
	ErrUnsupportedChannel = fmt.Errorf("%w: unsupported channel", domain.ErrConfiguration)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("notifications service: internal error")
)
