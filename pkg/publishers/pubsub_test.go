package publishers

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/guildwatch-hq/wcl-harvester/internal/domain"
)

func TestPubSubPublisherDelivers(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	defer os.Unsetenv("PUBSUB_EMULATOR_HOST")
	os.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	topic, err := client.CreateTopic(ctx, "reports")
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub := &pubsubPublisher{
		id:    "gcp",
		typ:   TypePubSub,
		topic: topic,
		log:   noopLogger{},
	}

	evt := NewEvent("nlt", "not like this", "herod", "US", domain.Report{Code: "a1b2c3"})
	if err := pub.Publish(ctx, evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message on the server, got %d", len(msgs))
	}
	if got := msgs[0].Attributes["watch_id"]; got != "nlt" {
		t.Fatalf("watch_id attribute = %q", got)
	}
}
