package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"roomly/internal/rooms"
)

// RoomEventProducer publishes room lifecycle events to Kafka so downstream
// consumers (guest notifications, reporting) can react to allocations.
type RoomEventProducer interface {
	PublishRoomEvent(ctx context.Context, event rooms.RoomEvent) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "room-events",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaRoomEventProducer handles publishing room events to Kafka
type KafkaRoomEventProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaRoomEventProducer creates a new Kafka room event producer
func NewKafkaRoomEventProducer(config *KafkaProducerConfig) (RoomEventProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps all events of one room on one partition,
	// so consumers see allocate/confirm/release in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka room event producer created successfully")
	return &KafkaRoomEventProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishRoomEvent publishes a single room event to Kafka
func (p *KafkaRoomEventProducer) PublishRoomEvent(ctx context.Context, event rooms.RoomEvent) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(strconv.FormatUint(uint64(event.RoomID), 10)),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send room event to Kafka: %w", err)
	}

	log.Printf("📤 Room event published to Kafka - Topic: %s, Partition: %d, Offset: %d, Type: %s, Room: %d",
		p.config.Topic, partition, offset, event.Type, event.RoomID)

	return nil
}

// createHeaders creates Kafka headers for room events
func (p *KafkaRoomEventProducer) createHeaders(event rooms.RoomEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("room_id"), Value: []byte(strconv.FormatUint(uint64(event.RoomID), 10))},
		{Key: []byte("hotel_id"), Value: []byte(strconv.FormatUint(uint64(event.HotelID), 10))},
		{Key: []byte("producer"), Value: []byte("roomly-backend")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (p *KafkaRoomEventProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka room event producer closed")
	}
	return nil
}

// HealthCheck validates the producer configuration
func (p *KafkaRoomEventProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}
	if p.config.Topic == "" {
		return fmt.Errorf("health check failed - topic not configured")
	}
	return nil
}
