// Package kafka ships audit events to a Kafka topic. Kafka is the
// source of truth for audit events in distributed deployments.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "aegis/pkg/platform/audit"
)

// Store publishes audit events to a Kafka topic, keyed by client so
// one client's events stay ordered within a partition.
type Store struct {
	client *kgo.Client
	topic  string
}

// New connects to the brokers and returns a Kafka-backed audit store.
func New(brokers []string, topic string) (*Store, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

type eventPayload struct {
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Realm     string `json:"realm"`
	UserID    string `json:"user_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()
	payload, err := json.Marshal(eventPayload{
		Category:  string(category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Realm:     event.Realm,
		UserID:    event.UserID,
		ClientID:  event.ClientID,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Realm + "/" + event.ClientID),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (s *Store) Close() {
	s.client.Close()
}
