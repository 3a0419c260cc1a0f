package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/metrics"
)

type seenKey struct {
	entityType string
	entityID   int
	action     string
}

// Dispatcher routes events through a Registry and remembers the last status
// seen per (entity, action).
type Dispatcher struct {
	registry *Registry
	log      zerolog.Logger
	metrics  *metrics.Metrics

	mu   sync.Mutex
	last map[seenKey]api.EventStatus
}

// NewDispatcher wraps registry. m may be nil.
func NewDispatcher(registry *Registry, log zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{
		registry: registry,
		log:      log,
		metrics:  m,
		last:     map[seenKey]api.EventStatus{},
	}
}

// Dispatch runs every handler registered for the event's (action, status)
// and returns how many ran. Handler errors are logged; the cache already
// carries them in its error slots.
func (d *Dispatcher) Dispatch(ctx context.Context, ev api.Event) int {
	key := seenKey{action: ev.Action}
	if ev.Entity != nil {
		key.entityType = ev.Entity.Type
		key.entityID = ev.Entity.ID
	}

	d.mu.Lock()
	_, seen := d.last[key]
	d.last[key] = ev.Status
	d.mu.Unlock()

	d.metrics.ObserveEvent(ev.Action, string(ev.Status))

	handlers := d.registry.Lookup(ev.Action, ev.Status)
	for _, h := range handlers {
		err := h(ctx, ev, !seen)
		d.metrics.ObserveHandler(err)
		if err != nil {
			d.log.Warn().Err(err).
				Int("event_id", ev.ID).
				Str("action", ev.Action).
				Str("status", string(ev.Status)).
				Msg("event handler failed")
		}
	}
	if len(handlers) > 0 {
		d.log.Debug().
			Int("event_id", ev.ID).
			Str("action", ev.Action).
			Str("status", string(ev.Status)).
			Bool("first_seen", !seen).
			Int("handlers", len(handlers)).
			Msg("event dispatched")
	}
	return len(handlers)
}

// DispatchAll dispatches evs, which arrive newest first, in chronological
// order and returns the total handler count.
func (d *Dispatcher) DispatchAll(ctx context.Context, evs []api.Event) int {
	total := 0
	for i := len(evs) - 1; i >= 0; i-- {
		total += d.Dispatch(ctx, evs[i])
	}
	return total
}

// LastStatus returns the last status recorded for (entityType, id, action).
func (d *Dispatcher) LastStatus(entityType string, id int, action string) (api.EventStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	status, ok := d.last[seenKey{entityType: entityType, entityID: id, action: action}]
	return status, ok
}
