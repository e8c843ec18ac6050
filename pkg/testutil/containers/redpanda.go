//go:build integration

package containers

import (
	"context"
	"testing"

	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// RedpandaContainer wraps a Kafka-compatible Redpanda broker for testing the
// audit event sink.
type RedpandaContainer struct {
	Container *tcredpanda.Container
	Broker    string
	Client    *kgo.Client
	Admin     *kadm.Client
}

// NewRedpandaContainer starts a Redpanda container and returns connected
// producer and admin clients.
func NewRedpandaContainer(t *testing.T) *RedpandaContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "redpandadata/redpanda:v24.2.3")
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		t.Fatalf("failed to get redpanda broker address: %v", err)
	}

	client, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		t.Fatalf("failed to create kafka client: %v", err)
	}
	t.Cleanup(client.Close)

	return &RedpandaContainer{
		Container: container,
		Broker:    broker,
		Client:    client,
		Admin:     kadm.NewClient(client),
	}
}

// CreateTopic creates a single-partition topic for a test.
func (r *RedpandaContainer) CreateTopic(ctx context.Context, topic string) error {
	_, err := r.Admin.CreateTopic(ctx, 1, 1, nil, topic)
	return err
}
