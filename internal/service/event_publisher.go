package service

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Domain events, used as routing keys on the topic exchange
const (
	EventAppointmentBooked      = "appointment.booked"
	EventAppointmentConfirmed   = "appointment.confirmed"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCanceled    = "appointment.canceled"
	EventAppointmentCompleted   = "appointment.completed"
	EventPetRegistrationRequest = "pet.registration_requested"
	EventPetApproved            = "pet.approved"
	EventPetRejected            = "pet.rejected"
	EventChatMessageSent        = "chat.message_sent"
)

type Event struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// EventPublisher hands domain events to the message broker. Publishing happens after
// the change is committed and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, name string, payload interface{}) error
	Close() error
}

type rabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	metrics  *Metrics
	log      *logrus.Logger
}

func NewRabbitPublisher(conn *amqp.Connection, channel *amqp.Channel, exchange string, metrics *Metrics, log *logrus.Logger) EventPublisher {
	return &rabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		metrics:  metrics,
		log:      log,
	}
}

func (p *rabbitPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	event := Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.record(name, "error")
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	p.mu.Unlock()

	if err != nil {
		p.record(name, "error")
		p.log.Warnf("Failed to publish event %s: %+v", name, err)
		return err
	}
	p.record(name, "ok")
	return nil
}

func (p *rabbitPublisher) record(name, status string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(name, status).Inc()
	}
}

func (p *rabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.log.Warnf("Failed to close rabbitmq channel: %+v", err)
	}
	return p.conn.Close()
}

type noopPublisher struct {
	log *logrus.Logger
}

// NewNoopPublisher drops events; used when no broker is configured.
func NewNoopPublisher(log *logrus.Logger) EventPublisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	p.log.Debugf("Event %s dropped, no broker configured", name)
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
