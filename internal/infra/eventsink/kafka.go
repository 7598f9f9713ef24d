package eventsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ErrPublish возвращается при ошибке публикации события
var ErrPublish = errors.New("eventsink: failed to publish event")

// MessageWriter часть kafka.Writer, используемая sink-ом
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// KafkaSink публикует события жизненного цикла записей в топик Kafka.
// Ключ сообщения: ID записи. События одной записи попадают в одну партицию.
type KafkaSink struct {
	writer MessageWriter
	logger Logger
}

// NewKafkaSink создает sink с kafka.Writer
func NewKafkaSink(brokers []string, topic string, logger Logger) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}, logger)
}

// NewKafkaSinkWithWriter создает sink с произвольным writer-ом
func NewKafkaSinkWithWriter(writer MessageWriter, logger Logger) *KafkaSink {
	return &KafkaSink{writer: writer, logger: logger}
}

// eventMessage JSON-представление события
type eventMessage struct {
	EventID       string `json:"event_id"`
	EventType     string `json:"event_type"`
	TenantID      int64  `json:"tenant_id"`
	AppointmentID int64  `json:"appointment_id"`
	OccurredAt    string `json:"occurred_at"`
	CustomerID    int64  `json:"customer_id"`
	ResourceID    int64  `json:"resource_id"`
	ResourceName  string `json:"resource_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Duration      int    `json:"duration_minutes"`
	Services      string `json:"services"`
	TotalAmount   int64  `json:"total_amount"`
	ReminderLead  string `json:"reminder_lead,omitempty"`
}

// HandleEvent публикует событие
func (s *KafkaSink) HandleEvent(ctx context.Context, evt domain.LifecycleEvent) error {
	payload, err := json.Marshal(eventMessage{
		EventID:       evt.ID,
		EventType:     string(evt.Kind),
		TenantID:      evt.TenantID,
		AppointmentID: evt.AppointmentID,
		OccurredAt:    evt.OccurredAt.UTC().Format(time.RFC3339),
		CustomerID:    evt.Customer.ID,
		ResourceID:    evt.Resource.ID,
		ResourceName:  evt.Resource.Name,
		Date:          evt.Schedule.Date.Format(domain.DateFormat),
		StartTime:     evt.Schedule.StartTime.String(),
		Duration:      evt.Schedule.DurationMinutes,
		Services:      evt.ServiceNames,
		TotalAmount:   evt.TotalAmount,
		ReminderLead:  string(evt.ReminderLead),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.AppointmentID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.ID)},
			{Key: "event_type", Value: []byte("appointment." + string(evt.Kind))},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("KafkaSink: failed to publish event id=%s appointment=%d: %v", evt.ID, evt.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	return nil
}

// Close закрывает writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
