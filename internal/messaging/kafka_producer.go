package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Publisher is the interface services use to emit domain events
type Publisher interface {
	// PublishProjectCreated emits a project creation event
	PublishProjectCreated(ctx context.Context, project *domain.Project) error

	// PublishProjectUpdated emits a project update event with the changed fields
	PublishProjectUpdated(ctx context.Context, project *domain.Project, changes map[string]interface{}) error

	// PublishProjectArchived emits a project archive event
	PublishProjectArchived(ctx context.Context, project *domain.Project) error

	// PublishVisitCreated emits a visit creation event
	PublishVisitCreated(ctx context.Context, visit *domain.Visit) error

	// PublishVisitDeleted emits a visit soft-delete event
	PublishVisitDeleted(ctx context.Context, visit *domain.Visit) error
}

// KafkaProducer implements Publisher on top of Kafka
type KafkaProducer struct {
	writer *kafka.Writer
	topics map[string]string
	logger logger.Logger
}

// NewKafkaProducer creates a new KafkaProducer instance
func NewKafkaProducer(brokers []string, topics map[string]string, logger logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       wrapLogger{log: logger},
	}

	return &KafkaProducer{
		writer: writer,
		topics: topics,
		logger: logger,
	}
}

// Close closes the Kafka connection
func (p *KafkaProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// PublishProjectCreated emits a project creation event
func (p *KafkaProducer) PublishProjectCreated(ctx context.Context, project *domain.Project) error {
	event := projectEvent(project, EventTypeProjectCreated, nil)
	return p.publishEvent(ctx, p.topics[EventTypeProjectCreated], project.ID, event)
}

// PublishProjectUpdated emits a project update event with the changed fields
func (p *KafkaProducer) PublishProjectUpdated(ctx context.Context, project *domain.Project, changes map[string]interface{}) error {
	event := projectEvent(project, EventTypeProjectUpdated, changes)
	return p.publishEvent(ctx, p.topics[EventTypeProjectUpdated], project.ID, event)
}

// PublishProjectArchived emits a project archive event
func (p *KafkaProducer) PublishProjectArchived(ctx context.Context, project *domain.Project) error {
	event := projectEvent(project, EventTypeProjectArchived, nil)
	return p.publishEvent(ctx, p.topics[EventTypeProjectArchived], project.ID, event)
}

// PublishVisitCreated emits a visit creation event
func (p *KafkaProducer) PublishVisitCreated(ctx context.Context, visit *domain.Visit) error {
	event := visitEvent(visit, EventTypeVisitCreated)
	return p.publishEvent(ctx, p.topics[EventTypeVisitCreated], visit.ID, event)
}

// PublishVisitDeleted emits a visit soft-delete event
func (p *KafkaProducer) PublishVisitDeleted(ctx context.Context, visit *domain.Visit) error {
	event := visitEvent(visit, EventTypeVisitDeleted)
	return p.publishEvent(ctx, p.topics[EventTypeVisitDeleted], visit.ID, event)
}

// publishEvent serializes and writes an event to the given topic
func (p *KafkaProducer) publishEvent(ctx context.Context, topic, key string, event interface{}) error {
	if topic == "" {
		return fmt.Errorf("no topic configured for event")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.Error("Failed to publish event", err, map[string]interface{}{
			"topic": topic,
			"key":   key,
		})
		return fmt.Errorf("failed to publish event to %s: %w", topic, err)
	}

	return nil
}

func projectEvent(project *domain.Project, eventType string, changes map[string]interface{}) ProjectEvent {
	return ProjectEvent{
		ID:                project.ID,
		Name:              project.Name,
		Country:           project.Country,
		Consultant:        project.Consultant,
		OpportunityNumber: project.OpportunityNumber,
		OpportunityAmount: project.OpportunityAmount,
		Finalized:         project.Finalized,
		Active:            project.Active,
		CreatedAt:         project.CreatedAt,
		UpdatedAt:         project.UpdatedAt,
		Type:              eventType,
		Changes:           changes,
	}
}

func visitEvent(visit *domain.Visit, eventType string) VisitEvent {
	return VisitEvent{
		ID:                visit.ID,
		Product:           visit.Product,
		Client:            visit.Client,
		OpportunityNumber: visit.OpportunityNumber,
		Hours:             visit.Hours,
		OpportunityValue:  visit.OpportunityValue,
		Active:            visit.Active,
		CreatedAt:         visit.CreatedAt,
		Type:              eventType,
	}
}

// wrapLogger adapts the application logger to the kafka-go logger
type wrapLogger struct {
	log logger.Logger
}

func (w wrapLogger) Printf(format string, args ...interface{}) {
	w.log.Debug(fmt.Sprintf(format, args...))
}
