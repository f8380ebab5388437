package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventProductCreated = "ProductCreated"
	EventProductUpdated = "ProductUpdated"
	EventProductDeleted = "ProductDeleted"
)

// TopicProductChanged carries every product mutation.
const TopicProductChanged = "catalog.product.changed"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // product id
	Payload       json.RawMessage `json:"payload"`
}

type ProductDeletedPayload struct {
	ID string `json:"id"`
}

// PartitionKey keeps all events of one product on the same partition, in order.
func PartitionKey(productID string) []byte { return []byte(productID) }

// NewEnvelope wraps payload in a version 1 envelope correlated to productID.
func NewEnvelope(eventType, producer, traceID, productID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: productID,
		Payload:       b,
	}, nil
}
