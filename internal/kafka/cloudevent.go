// Package kafka wraps segmentio/kafka-go with the CloudEvents-style envelope
// used on every topic of the platform.
package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CloudEvent is the JSON envelope published to and consumed from Kafka.
type CloudEvent struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	SpecVersion     string          `json:"specversion"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a CloudEvent envelope of the given type.
func NewCloudEvent(source, eventType string, data any) (*CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &CloudEvent{
		ID:              uuid.NewString(),
		Source:          source,
		SpecVersion:     "1.0",
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            payload,
	}, nil
}

// ParseData unmarshals the event payload into out.
func (e *CloudEvent) ParseData(out any) error {
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return nil
}
