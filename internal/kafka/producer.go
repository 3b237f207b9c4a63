package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
)

// Producer streams check-in events for downstream consumers (notifications,
// attendance analytics). The gateway only publishes; it never consumes.
type Producer struct {
	writer *kafka.Writer
	topics Topics
	logger *logger.Logger
}

func NewProducer(brokers []string, topics Topics, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, topics: topics.withDefaults(), logger: log}
}

type ticketCheckedInEvent struct {
	Reference  string    `json:"reference"`
	BookingRef string    `json:"booking"`
	TicketType string    `json:"ticket_type"`
	CheckedAt  time.Time `json:"checked_at"`
}

type bookingCheckedInEvent struct {
	Reference   string    `json:"reference"`
	TicketCount int       `json:"ticket_count"`
	CheckedAt   time.Time `json:"checked_at"`
}

func (p *Producer) PublishTicketCheckedIn(ticket models.Ticket) error {
	event := ticketCheckedInEvent{
		Reference:  ticket.Reference,
		BookingRef: ticket.BookingRef,
		TicketType: ticket.TicketTypeName,
		CheckedAt:  time.Now().UTC(),
	}
	return p.publish(p.topics.TicketCheckedIn, ticket.Reference, event)
}

func (p *Producer) PublishBookingCheckedIn(bookingRef string, ticketCount int) error {
	event := bookingCheckedInEvent{
		Reference:   bookingRef,
		TicketCount: ticketCount,
		CheckedAt:   time.Now().UTC(),
	}
	return p.publish(p.topics.BookingCheckedIn, bookingRef, event)
}

func (p *Producer) publish(topic, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}

	p.logger.LogKafka("PUBLISH", topic, string(payload))

	return p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: payload,
		},
	)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// MockPublisher logs events instead of writing to Kafka. Used when Kafka is
// disabled or running in mock mode.
type MockPublisher struct {
	Logger *logger.Logger
}

func (m *MockPublisher) PublishTicketCheckedIn(ticket models.Ticket) error {
	m.Logger.LogKafka("MOCK", TopicTicketCheckedIn, fmt.Sprintf("ticket %s", ticket.Reference))
	return nil
}

func (m *MockPublisher) PublishBookingCheckedIn(bookingRef string, ticketCount int) error {
	m.Logger.LogKafka("MOCK", TopicBookingCheckedIn, fmt.Sprintf("booking %s (%d tickets)", bookingRef, ticketCount))
	return nil
}
