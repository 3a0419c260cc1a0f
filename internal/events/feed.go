package events

import (
	"sort"
	"sync"
	"time"

	"github.com/five82/cirrus/internal/api"
)

const maxFeedItems = 500

// Item is an event as shown in the feed.
type Item struct {
	api.Event
	// DeletedAt is when the event's entity was deleted, or zero.
	DeletedAt time.Time
}

// Feed keeps the account's recent events, newest first.
type Feed struct {
	mu      sync.RWMutex
	items   []Item
	started time.Time
}

// NewFeed returns an empty feed. since is used as the polling start when no
// events have been seen yet.
func NewFeed(since time.Time) *Feed {
	return &Feed{started: since.UTC()}
}

// AddEvents merges incoming into the feed. Existing ids are updated in place
// and new ids are added. It returns the events that were new or whose status
// or progress changed, newest first.
func (f *Feed) AddEvents(incoming []api.Event) []api.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := make(map[int]int, len(f.items))
	for i, item := range f.items {
		index[item.ID] = i
	}

	var changed []api.Event
	for _, ev := range incoming {
		i, ok := index[ev.ID]
		if !ok {
			f.items = append(f.items, Item{Event: ev})
			index[ev.ID] = len(f.items) - 1
			changed = append(changed, ev)
			continue
		}
		prev := f.items[i].Event
		if prev.Status != ev.Status || progressOf(prev) != progressOf(ev) {
			changed = append(changed, ev)
		}
		// The server never un-sees an event.
		ev.Seen = ev.Seen || prev.Seen
		f.items[i].Event = ev
	}

	sort.SliceStable(f.items, func(a, b int) bool { return f.items[a].ID > f.items[b].ID })
	if len(f.items) > maxFeedItems {
		f.items = f.items[:maxFeedItems]
	}
	f.setDeletedLocked()

	sort.SliceStable(changed, func(a, b int) bool { return changed[a].ID > changed[b].ID })
	return changed
}

// Events returns a copy of the feed, newest first.
func (f *Feed) Events() []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

// MostRecentEventTime returns the created time of the newest event, or the
// feed's start time when it is empty, in the API's timestamp format.
func (f *Feed) MostRecentEventTime() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latestLocked()
}

func (f *Feed) latestLocked() string {
	if len(f.items) > 0 && f.items[0].Created != "" {
		return f.items[0].Created
	}
	return api.FormatTime(f.started)
}

// CountUnseen returns the number of events not yet marked seen.
func (f *Feed) CountUnseen() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, item := range f.items {
		if !item.Seen {
			n++
		}
	}
	return n
}

// InProgress returns the events still reporting progress below 100.
func (f *Feed) InProgress() []api.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []api.Event
	for _, item := range f.items {
		if IsInProgress(item.Event) {
			out = append(out, item.Event)
		}
	}
	return out
}

// HasInProgress reports whether any event is in progress.
func (f *Feed) HasInProgress() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, item := range f.items {
		if IsInProgress(item.Event) {
			return true
		}
	}
	return false
}

// MarkSeen marks id and every older event as seen.
func (f *Feed) MarkSeen(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID <= id {
			f.items[i].Seen = true
		}
	}
}

// SetDeletedEvents stamps every event about a deleted entity with the time
// of its finished delete event.
func (f *Feed) SetDeletedEvents() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setDeletedLocked()
}

func (f *Feed) setDeletedLocked() {
	deleted := map[string]time.Time{}
	for _, item := range f.items {
		if !IsDeleteAction(item.Action) || item.Status != api.StatusFinished {
			continue
		}
		if key := item.EntityKey(); key != "" {
			deleted[key] = item.ParsedCreated()
		}
	}
	if len(deleted) == 0 {
		return
	}
	for i := range f.items {
		if at, ok := deleted[f.items[i].EntityKey()]; ok {
			f.items[i].DeletedAt = at
		}
	}
}

// NextFilter returns the X-Filter for the next poll.
func (f *Feed) NextFilter() api.Filter {
	f.mu.RLock()
	defer f.mu.RUnlock()

	latest := f.latestLocked()
	var inProgress, atLatest []int
	for _, item := range f.items {
		if IsInProgress(item.Event) {
			inProgress = append(inProgress, item.ID)
		} else if item.Created == latest {
			atLatest = append(atLatest, item.ID)
		}
	}
	return PollingFilter(latest, inProgress, atLatest)
}

// IsInProgress reports whether ev reports progress below 100.
func IsInProgress(ev api.Event) bool {
	pct, ok := ev.Progress()
	return ok && pct < 100
}

// PollingFilter asks for events created at or after latest plus the
// in-progress ids, excluding ids already seen at exactly latest. Newest
// first.
func PollingFilter(latest string, inProgressIDs, seenAtLatest []int) api.Filter {
	filter := api.Filter{
		"+order_by": "id",
		"+order":    "desc",
	}
	created := map[string]any{"created": map[string]string{"+gte": latest}}

	if len(inProgressIDs) > 0 {
		or := []any{created}
		for _, id := range inProgressIDs {
			or = append(or, map[string]any{"id": id})
		}
		filter["+or"] = or
	} else {
		filter["created"] = map[string]string{"+gte": latest}
	}

	if len(seenAtLatest) > 0 {
		and := make([]any, 0, len(seenAtLatest))
		for _, id := range seenAtLatest {
			and = append(and, map[string]any{"id": map[string]int{"+neq": id}})
		}
		filter["+and"] = and
	}
	return filter
}

func progressOf(ev api.Event) int {
	pct, ok := ev.Progress()
	if !ok {
		return -1
	}
	return pct
}
