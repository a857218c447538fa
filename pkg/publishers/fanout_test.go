package publishers

import (
	"context"
	"errors"
	"testing"
)

type capturePublisher struct {
	id     string
	events []Event
	err    error
}

func (c *capturePublisher) ID() string   { return c.id }
func (c *capturePublisher) Type() string { return "capture" }

func (c *capturePublisher) Publish(_ context.Context, evt Event) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, evt)
	return nil
}

func TestFanoutDeliversToAll(t *testing.T) {
	a := &capturePublisher{id: "a"}
	b := &capturePublisher{id: "b"}
	fanout := NewFanout([]Publisher{a, b, nil})

	if fanout.Size() != 2 {
		t.Fatalf("Size = %d, want 2", fanout.Size())
	}

	n, err := fanout.Publish(context.Background(), Event{WatchID: "w"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if n != 2 {
		t.Fatalf("successful = %d, want 2", n)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("events not delivered to all publishers")
	}
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	bad := &capturePublisher{id: "bad", err: errors.New("down")}
	good := &capturePublisher{id: "good"}
	fanout := NewFanout([]Publisher{bad, good})

	n, err := fanout.Publish(context.Background(), Event{WatchID: "w"})
	if err == nil {
		t.Fatalf("expected joined error from failing publisher")
	}
	if n != 1 {
		t.Fatalf("successful = %d, want 1", n)
	}
	if len(good.events) != 1 {
		t.Fatalf("healthy publisher should still receive the event")
	}
}
