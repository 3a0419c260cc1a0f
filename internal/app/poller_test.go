package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongBaseNeverShortens(t *testing.T) {
	base := time.Minute
	if got := calculateBackoff(3, base); got != base {
		t.Fatalf("calculateBackoff(3, 1m) = %v, want 1m", got)
	}
}

type fakeEvents struct {
	mu      sync.Mutex
	pages   [][]api.Event
	err     error
	filters []api.Filter
	seen    []int
}

func (f *fakeEvents) ListEvents(_ context.Context, _ api.PageOptions, filter api.Filter) (api.Page[api.Event], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return api.Page[api.Event]{}, f.err
	}
	if len(f.pages) == 0 {
		return api.Page[api.Event]{Page: 1, Pages: 1}, nil
	}
	data := f.pages[0]
	f.pages = f.pages[1:]
	return api.Page[api.Event]{Data: data, Page: 1, Pages: 1, Results: len(data)}, nil
}

func (f *fakeEvents) MarkEventSeen(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, id)
	return f.err
}

type poller struct {
	*Poller
	client  *fakeEvents
	store   *state.Store
	feed    *events.Feed
	handled *[]string
}

func newTestPoller(t *testing.T) poller {
	t.Helper()
	var handled []string
	registry := events.NewRegistry()
	registry.HandlePrefix("linode_", func(_ context.Context, ev api.Event, _ bool) error {
		handled = append(handled, ev.Action+":"+string(ev.Status))
		return nil
	})

	client := &fakeEvents{}
	store := state.New()
	feed := events.NewFeed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p := NewPoller(PollerOptions{
		Client:     client,
		Store:      store,
		Feed:       feed,
		Dispatcher: events.NewDispatcher(registry, zerolog.Nop(), nil),
		Logger:     zerolog.Nop(),
	})
	return poller{Poller: p, client: client, store: store, feed: feed, handled: &handled}
}

func pct(n int) *int { return &n }

func TestPoller_DispatchesOnlyChangedEvents(t *testing.T) {
	p := newTestPoller(t)
	boot := api.Event{ID: 10, Action: "linode_boot", Status: api.StatusStarted, PercentComplete: pct(40),
		Created: "2024-01-02T00:00:00", Entity: &api.EventEntity{ID: 1, Type: "linode"}}
	done := boot
	done.Status = api.StatusFinished
	done.PercentComplete = pct(100)

	p.client.pages = [][]api.Event{{boot}, {boot}, {done}}

	for i := 0; i < 3; i++ {
		if err := p.Poll(context.Background()); err != nil {
			t.Fatalf("Poll %d: %v", i, err)
		}
	}

	want := []string{"linode_boot:started", "linode_boot:finished"}
	if len(*p.handled) != len(want) || (*p.handled)[0] != want[0] || (*p.handled)[1] != want[1] {
		t.Fatalf("handled = %v, want %v", *p.handled, want)
	}
	if p.store.Connection().LastPoll.IsZero() {
		t.Fatalf("LastPoll not recorded")
	}
}

func TestPoller_PrimeDoesNotDispatch(t *testing.T) {
	p := newTestPoller(t)
	p.client.pages = [][]api.Event{{
		{ID: 3, Action: "linode_boot", Status: api.StatusFinished, Created: "2024-01-02T00:00:00", Entity: &api.EventEntity{ID: 1, Type: "linode"}},
	}}

	if err := p.Prime(context.Background()); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if len(*p.handled) != 0 {
		t.Fatalf("handled = %v, want none", *p.handled)
	}
	if got := len(p.feed.Events()); got != 1 {
		t.Fatalf("feed has %d events, want 1", got)
	}
}

func TestPoller_FailuresBackOffAndGoOffline(t *testing.T) {
	p := newTestPoller(t)
	p.client.err = errors.New("connection refused")

	for i := 0; i < 2; i++ {
		if err := p.Poll(context.Background()); err == nil {
			t.Fatalf("Poll returned nil error")
		}
	}
	conn := p.store.Connection()
	if !conn.IsOffline() || conn.ConsecutiveFailures != 2 {
		t.Fatalf("connection = %+v, want offline after 2 failures", conn)
	}
	if got := p.nextInterval(); got != maxBackoff {
		t.Fatalf("nextInterval = %v, want %v", got, maxBackoff)
	}

	p.client.err = nil
	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if p.store.Connection().IsOffline() {
		t.Fatalf("still offline after a successful poll")
	}
	if got := p.nextInterval(); got != defaultPollInterval {
		t.Fatalf("nextInterval = %v, want %v", got, defaultPollInterval)
	}
}

func TestPoller_FastIntervalWhileInProgress(t *testing.T) {
	p := newTestPoller(t)
	p.client.pages = [][]api.Event{{
		{ID: 5, Action: "linode_resize", Status: api.StatusStarted, PercentComplete: pct(10), Created: "2024-01-02T00:00:00"},
	}}
	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := p.nextInterval(); got != defaultFastInterval {
		t.Fatalf("nextInterval = %v, want %v", got, defaultFastInterval)
	}

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	last := p.client.filters[len(p.client.filters)-1]
	if _, ok := last["+or"]; !ok {
		t.Fatalf("filter = %v, want in-progress ids requested", last)
	}
}

func TestPoller_MarkSeen(t *testing.T) {
	p := newTestPoller(t)
	p.client.pages = [][]api.Event{{
		{ID: 8, Action: "linode_boot", Status: api.StatusFinished, Created: "2024-01-02T00:00:02"},
		{ID: 7, Action: "linode_boot", Status: api.StatusFinished, Created: "2024-01-02T00:00:01"},
	}}
	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := p.feed.CountUnseen(); got != 2 {
		t.Fatalf("CountUnseen = %d, want 2", got)
	}

	if err := p.MarkSeen(context.Background(), 8); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if got := p.feed.CountUnseen(); got != 0 {
		t.Fatalf("CountUnseen = %d, want 0", got)
	}
	if len(p.client.seen) != 1 || p.client.seen[0] != 8 {
		t.Fatalf("API seen calls = %v, want [8]", p.client.seen)
	}
}
