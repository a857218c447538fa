package poller

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/guildwatch-hq/wcl-harvester/internal/logger"
	"github.com/guildwatch-hq/wcl-harvester/pkg/publishers"
	"github.com/guildwatch-hq/wcl-harvester/pkg/watchlist"
	"github.com/guildwatch-hq/wcl-harvester/pkg/wcl"
)

type fakeLister struct {
	lastParams *wcl.Params
	body       string
	err        error
}

func (f *fakeLister) GuildReports(_ context.Context, _, _, _ string, params *wcl.Params) (json.RawMessage, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

type memStore struct {
	seen map[string]bool
}

func newMemStore() *memStore { return &memStore{seen: map[string]bool{}} }

func (m *memStore) Close() error { return nil }

func (m *memStore) SeenReport(code string) (bool, error) { return m.seen[code], nil }

func (m *memStore) MarkReport(code string) error {
	m.seen[code] = true
	return nil
}

type capturePublisher struct {
	events []publishers.Event
}

func (c *capturePublisher) ID() string   { return "capture" }
func (c *capturePublisher) Type() string { return "capture" }

func (c *capturePublisher) Publish(_ context.Context, evt publishers.Event) error {
	c.events = append(c.events, evt)
	return nil
}

var testGuild = watchlist.Guild{
	ID:           "nlt",
	Guild:        "not like this",
	Server:       "herod",
	Region:       "US",
	LookbackDays: 7,
}

func TestRunPublishesOnlyNewReports(t *testing.T) {
	lister := &fakeLister{body: `[
		{"id":"old111","title":"Tuesday MC","owner":"kampf","start":100,"end":200,"zone":1000},
		{"id":"new222","title":"Thursday BWL","owner":"kampf","start":300,"end":400,"zone":1002}
	]`}
	store := newMemStore()
	store.seen["old111"] = true
	sink := &capturePublisher{}
	svc := NewService(lister, publishers.NewFanout([]publishers.Publisher{sink}), store, logger.NopLogger{})

	if err := svc.Run(context.Background(), []watchlist.Guild{testGuild}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	evt := sink.events[0]
	if evt.Report.Code != "new222" || evt.WatchID != "nlt" || evt.Guild != "not like this" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if !store.seen["new222"] {
		t.Fatalf("published report was not marked seen")
	}
}

func TestRunRequestsLookbackWindow(t *testing.T) {
	lister := &fakeLister{body: `[]`}
	svc := NewService(lister, publishers.NewFanout(nil), newMemStore(), logger.NopLogger{})
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.Run(context.Background(), []watchlist.Guild{testGuild}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if lister.lastParams.Len() != 1 {
		t.Fatalf("expected a single start param, got %d", lister.lastParams.Len())
	}
	// 7 days before the fixed clock, in Unix milliseconds.
	wantStart := strconv.FormatInt(fixed.Add(-7*24*time.Hour).UnixMilli(), 10)
	if got, ok := lister.lastParams.Get("start"); !ok || got != wantStart {
		t.Fatalf("start param = %q (set=%v), want %q", got, ok, wantStart)
	}
}

func TestRunJoinsPerGuildErrors(t *testing.T) {
	lister := &fakeLister{err: errors.New("api down")}
	svc := NewService(lister, publishers.NewFanout(nil), newMemStore(), logger.NopLogger{})

	other := testGuild
	other.ID = "other"

	err := svc.Run(context.Background(), []watchlist.Guild{testGuild, other})
	if err == nil {
		t.Fatalf("expected joined error")
	}
}

func TestRunRejectsBrokenListing(t *testing.T) {
	lister := &fakeLister{body: `{"error":"not a list"}`}
	svc := NewService(lister, publishers.NewFanout(nil), newMemStore(), logger.NopLogger{})

	if err := svc.Run(context.Background(), []watchlist.Guild{testGuild}); err == nil {
		t.Fatalf("expected decode error for non-array listing")
	}
}
