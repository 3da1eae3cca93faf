package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

// BookingEvent is the payload published on booking and payment topics.
// Card data is never part of it.
type BookingEvent struct {
	BookingID     string               `json:"bookingId"`
	TourID        string               `json:"tourId,omitempty"`
	CustomerEmail string               `json:"customerEmail"`
	BookingDate   string               `json:"bookingDate"`
	Guests        int                  `json:"guests"`
	TotalAmount   string               `json:"totalAmount"`
	Status        models.BookingStatus `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentID     string               `json:"paymentId,omitempty"`
}

// Producer publishes booking lifecycle events. When disabled or in mock
// mode it degrades to logging, so the booking flow never depends on a
// broker being reachable.
type Producer struct {
	brokers []string
	enabled bool
	mock    bool
	log     *logger.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewProducer(brokers []string, enabled, mock bool, log *logger.Logger) *Producer {
	return &Producer{
		brokers: brokers,
		enabled: enabled,
		mock:    mock,
		log:     log,
		writers: make(map[string]*kafka.Writer),
	}
}

func (p *Producer) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.writers[topic]
	if !ok {
		w = kafka.NewWriter(kafka.WriterConfig{
			Brokers: p.brokers,
			Topic:   topic,
		})
		p.writers[topic] = w
	}
	return w
}

// Publish sends one event. Failures are returned, not fatal; callers treat
// event publication as best effort.
func (p *Producer) Publish(ctx context.Context, topic string, event BookingEvent) error {
	if !p.enabled {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if p.mock {
		p.log.Info("KAFKA", fmt.Sprintf("[mock] %s: %s", topic, string(payload)))
		return nil
	}

	err = p.writer(topic).WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.log.Info("KAFKA", fmt.Sprintf("Published %s for booking %s", topic, event.BookingID))
	return nil
}

func (p *Producer) PublishBookingCreated(ctx context.Context, event BookingEvent) error {
	return p.Publish(ctx, TopicBookingCreated, event)
}

func (p *Producer) PublishPaymentSucceeded(ctx context.Context, event BookingEvent) error {
	return p.Publish(ctx, TopicPaymentSucceeded, event)
}

func (p *Producer) PublishPaymentFailed(ctx context.Context, event BookingEvent) error {
	return p.Publish(ctx, TopicPaymentFailed, event)
}

func (p *Producer) PublishPaymentRefunded(ctx context.Context, event BookingEvent) error {
	return p.Publish(ctx, TopicPaymentRefunded, event)
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
