package events

import (
	"context"
	"strings"

	"github.com/five82/cirrus/internal/api"
)

// Handler reacts to one event. firstSeen is true when no earlier status was
// recorded for the event's (entity, action) in this session.
type Handler func(ctx context.Context, ev api.Event, firstSeen bool) error

type routeKey struct {
	action string
	status api.EventStatus
}

type prefixRoute struct {
	prefix  string
	status  api.EventStatus
	handler Handler
}

// Registry maps (action, status) pairs to handlers. Build it once at startup;
// it is not safe for concurrent registration.
type Registry struct {
	exact    map[routeKey][]Handler
	prefixes []prefixRoute
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{exact: map[routeKey][]Handler{}}
}

// Handle registers h for action under each of statuses, or under every
// status when none are given.
func (r *Registry) Handle(action string, h Handler, statuses ...api.EventStatus) {
	for _, status := range expand(statuses) {
		key := routeKey{action: action, status: status}
		r.exact[key] = append(r.exact[key], h)
	}
}

// HandlePrefix registers h for every action starting with prefix that has
// no exact registration for the status. The longest matching prefix wins.
func (r *Registry) HandlePrefix(prefix string, h Handler, statuses ...api.EventStatus) {
	for _, status := range expand(statuses) {
		r.prefixes = append(r.prefixes, prefixRoute{prefix: prefix, status: status, handler: h})
	}
}

// Lookup returns the handlers for (action, status). Unmapped pairs return nil.
func (r *Registry) Lookup(action string, status api.EventStatus) []Handler {
	if hs := r.exact[routeKey{action: action, status: status}]; len(hs) > 0 {
		return hs
	}

	best := ""
	var out []Handler
	for _, route := range r.prefixes {
		if route.status != status || !strings.HasPrefix(action, route.prefix) {
			continue
		}
		switch {
		case len(route.prefix) > len(best):
			best = route.prefix
			out = []Handler{route.handler}
		case route.prefix == best:
			out = append(out, route.handler)
		}
	}
	return out
}

func expand(statuses []api.EventStatus) []api.EventStatus {
	if len(statuses) == 0 {
		return api.AllStatuses
	}
	return statuses
}
