// Package publisher ships committed audit entries to Kafka for downstream
// consumers (compliance archival, ops dashboards). The database append
// remains the source of truth; this sink is fed asynchronously by the
// worker and its failures never roll back a mutation.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"caseflow/internal/audit"
)

// DefaultTopic is the audit event topic when none is configured.
const DefaultTopic = "caseflow.audit"

// Kafka publishes audit entries as JSON records keyed by case ID, so all
// entries for one case land on one partition in order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka constructs a publisher over an existing client.
func NewKafka(client *kgo.Client, topic string) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Kafka{client: client, topic: topic}
}

// Publish produces one entry synchronously.
func (p *Kafka) Publish(ctx context.Context, entry audit.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entry.CaseID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}
