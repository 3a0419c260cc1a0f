package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/metrics"
	"github.com/five82/cirrus/internal/state"
)

const (
	defaultPollInterval = 16 * time.Second
	defaultFastInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
	eventsPageSize      = 100
)

// EventAPI is the part of the API the poller needs.
type EventAPI interface {
	ListEvents(ctx context.Context, opts api.PageOptions, filter api.Filter) (api.Page[api.Event], error)
	MarkEventSeen(ctx context.Context, id int) error
}

// PollerOptions configure a Poller. Zero intervals use defaults.
type PollerOptions struct {
	Client     EventAPI
	Store      *state.Store
	Feed       *events.Feed
	Dispatcher *events.Dispatcher
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
	Interval   time.Duration
	Fast       time.Duration
}

// Poller keeps the feed current and feeds changed events to the dispatcher.
type Poller struct {
	client     EventAPI
	store      *state.Store
	feed       *events.Feed
	dispatcher *events.Dispatcher
	log        zerolog.Logger
	metrics    *metrics.Metrics
	interval   time.Duration
	fast       time.Duration

	// mu serializes polls from the loop and manual refreshes.
	mu sync.Mutex
}

// NewPoller builds a Poller.
func NewPoller(opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	fast := opts.Fast
	if fast <= 0 {
		fast = defaultFastInterval
	}
	return &Poller{
		client:     opts.Client,
		store:      opts.Store,
		feed:       opts.Feed,
		dispatcher: opts.Dispatcher,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		interval:   interval,
		fast:       fast,
	}
}

// Prime loads the most recent page of events into the feed without
// dispatching them. The cache is loaded separately, so history needs no
// refreshes.
func (p *Poller) Prime(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	page, err := p.client.ListEvents(ctx, api.PageOptions{Page: 1, PageSize: eventsPageSize},
		api.Filter{"+order_by": "id", "+order": "desc"})
	p.store.RecordPoll(err)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	p.feed.AddEvents(page.Data)
	return nil
}

// Poll requests events newer than the feed's latest plus the in-progress
// ones, merges them and dispatches those that changed.
func (p *Poller) Poll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	page, err := p.client.ListEvents(ctx, api.PageOptions{Page: 1, PageSize: eventsPageSize}, p.feed.NextFilter())
	p.store.RecordPoll(err)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	changed := p.feed.AddEvents(page.Data)
	if len(changed) == 0 {
		return nil
	}
	handled := p.dispatcher.DispatchAll(ctx, changed)
	p.log.Debug().
		Int("received", len(page.Data)).
		Int("changed", len(changed)).
		Int("handlers", handled).
		Msg("events polled")
	return nil
}

// MarkSeen marks id and every older event seen, on the API first and then
// in the feed.
func (p *Poller) MarkSeen(ctx context.Context, id int) error {
	if err := p.client.MarkEventSeen(ctx, id); err != nil {
		return fmt.Errorf("mark event %d seen: %w", id, err)
	}
	p.feed.MarkSeen(id)
	return nil
}

// Run polls until ctx is cancelled. It blocks.
func (p *Poller) Run(ctx context.Context) {
	for {
		err := p.Poll(ctx)
		next := p.nextInterval()
		p.metrics.ObservePoll(err, next.Seconds())
		if err != nil && ctx.Err() == nil {
			p.log.Warn().Err(err).Dur("retry_in", next).Msg("event poll failed")
		}

		timer := time.NewTimer(next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// nextInterval is the fast interval while events are in progress, the
// normal one otherwise, backed off after consecutive failures.
func (p *Poller) nextInterval() time.Duration {
	base := p.interval
	if p.feed.HasInProgress() {
		base = p.fast
	}
	return calculateBackoff(p.store.Connection().ConsecutiveFailures, base)
}

// calculateBackoff returns base * 2^failures, capped at maxBackoff or base
// when base is larger.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base <= 0 {
		return base
	}
	limit := max(maxBackoff, base)
	factor := math.Pow(2, float64(failures))
	if factor > float64(limit/base) {
		return limit
	}
	return min(time.Duration(factor)*base, limit)
}
