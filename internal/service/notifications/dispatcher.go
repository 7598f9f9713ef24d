package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// DeliveryResult итог одной попытки доставки
type DeliveryResult struct {
	OK       bool
	Provider string
	Err      error
}

// Dispatcher выбирает провайдера по каналу и ограничивает время вызова.
// Ошибки, паники и таймауты провайдера превращаются в неуспешный результат.
type Dispatcher struct {
	sms     SMSSender
	email   EmailSender
	timeout time.Duration
	logger  Logger
}

func NewDispatcher(sms SMSSender, email EmailSender, timeout time.Duration, logger Logger) *Dispatcher {
	return &Dispatcher{
		sms:     sms,
		email:   email,
		timeout: timeout,
		logger:  logger,
	}
}

// Send отправляет сообщение и всегда возвращает результат, никогда не паникует
func (d *Dispatcher) Send(ctx context.Context, channel domain.Channel, recipient, subject, body string) DeliveryResult {
	var (
		provider string
		call     func(ctx context.Context) error
	)

	switch {
	case channel == domain.ChannelSMS && d.sms != nil:
		provider = d.sms.ProviderID()
		call = func(ctx context.Context) error { return d.sms.Send(ctx, recipient, body) }
	case channel == domain.ChannelEmail && d.email != nil:
		provider = d.email.ProviderID()
		call = func(ctx context.Context) error { return d.email.Send(ctx, recipient, subject, body) }
	default:
		return DeliveryResult{Err: fmt.Errorf("%w: %s", ErrUnsupportedChannel, channel)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrProviderPanic, r)
			}
		}()
		done <- call(ctx)
	}()

	select {
	case <-ctx.Done():
		d.logger.Warn("Send: provider=%s channel=%s timed out after %s", provider, channel, d.timeout)
		return DeliveryResult{Provider: provider, Err: fmt.Errorf("%w: %v", ErrDeliveryTimeout, ctx.Err())}
	case err := <-done:
		if err != nil {
			if !isDeliveryError(err) {
				err = fmt.Errorf("%w: %v", ErrProviderFailed, err)
			}
			return DeliveryResult{Provider: provider, Err: err}
		}
		return DeliveryResult{OK: true, Provider: provider}
	}
}

func isDeliveryError(err error) bool {
	return errors.Is(err, domain.ErrDelivery)
}
