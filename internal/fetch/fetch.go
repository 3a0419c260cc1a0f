package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/metrics"
	"github.com/five82/cirrus/internal/state"
)

const (
	defaultPageSize = 100
	loadAllLimit    = 3
)

// Fetcher runs API requests and records their outcome in the store. Every
// API error ends up in the matching error slot; the returned error is for
// callers that want to log or exit on it.
type Fetcher struct {
	client   api.Cloud
	store    *state.Store
	log      zerolog.Logger
	metrics  *metrics.Metrics
	pageSize int
}

// Options configure a Fetcher.
type Options struct {
	PageSize int
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
}

// New builds a Fetcher writing into store.
func New(client api.Cloud, store *state.Store, opts Options) *Fetcher {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Fetcher{
		client:   client,
		store:    store,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		pageSize: pageSize,
	}
}

// Ensure Fetcher implements events.Refresher at compile time.
var _ events.Refresher = (*Fetcher)(nil)

// Store returns the store the fetcher writes to.
func (f *Fetcher) Store() *state.Store { return f.store }

// LoadAll loads every top-level collection, a few at a time. All loads run
// even if one fails; the first error is returned.
func (f *Fetcher) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(loadAllLimit)
	for _, kind := range state.Kinds {
		g.Go(func() error { return f.Load(ctx, kind) })
	}
	return g.Wait()
}

// Load loads one top-level collection by kind.
func (f *Fetcher) Load(ctx context.Context, kind state.Kind) error {
	switch kind {
	case state.KindInstances:
		return f.LoadInstances(ctx)
	case state.KindVolumes:
		return f.LoadVolumes(ctx)
	case state.KindNodeBalancers:
		return f.LoadNodeBalancers(ctx)
	case state.KindDomains:
		return f.LoadDomains(ctx)
	case state.KindClusters:
		return f.LoadClusters(ctx)
	case state.KindBuckets:
		return f.LoadBuckets(ctx)
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
}

// ReasonsOf converts an API error into cache error reasons.
func ReasonsOf(err error) []entity.Reason {
	src := api.ReasonsOf(err)
	if len(src) == 0 {
		return nil
	}
	out := make([]entity.Reason, len(src))
	for i, r := range src {
		out[i] = entity.Reason{Field: r.Field, Reason: r.Reason}
	}
	return out
}

func failed(op entity.Op, err error) entity.Failed {
	return entity.Failed{Errors: entity.ErrorsFor(op, ReasonsOf(err))}
}

func (f *Fetcher) stale(kind state.Kind, scope string) {
	f.metrics.ObserveStale(string(kind))
	f.log.Debug().Str("kind", string(kind)).Str("scope", scope).Msg("dropped superseded read result")
}

// loadCollection reads every page of a collection. Each page is applied as it
// arrives; the final list replaces the cache so ids gone from the server are
// evicted.
func loadCollection[ID comparable, T entity.Entity[ID]](ctx context.Context, f *Fetcher, kind state.Kind, store *entity.Store[ID, T], list api.PageFunc[T]) error {
	t := store.BeginRead()
	items, total, err := api.ListAll(ctx, list, f.pageSize, func(p api.Page[T]) {
		if !store.Finish(t, entity.GetPageDone[ID, T]{Items: p.Data, Results: p.Results}) {
			f.stale(kind, "page")
		}
	})
	f.metrics.ObserveFetch(string(kind), "read", err)
	if err != nil {
		store.Finish(t, failed(entity.OpRead, err))
		f.log.Warn().Err(err).Str("kind", string(kind)).Msg("load failed")
		return fmt.Errorf("load %s: %w", kind, err)
	}
	if !store.Finish(t, entity.GetAllDone[ID, T]{Items: items, Results: total}) {
		f.stale(kind, "all")
		return nil
	}
	f.log.Debug().Str("kind", string(kind)).Int("results", total).Msg("loaded")
	return nil
}

// loadItem refreshes one item. A 404 removes it and reports gone.
func loadItem[ID comparable, T entity.Entity[ID]](ctx context.Context, f *Fetcher, kind state.Kind, store *entity.Store[ID, T], id ID, get func(context.Context, ID) (T, error)) (gone bool, err error) {
	t := store.BeginItem(id)
	item, err := get(ctx, id)
	f.metrics.ObserveFetch(string(kind), "get", err)
	switch {
	case api.IsNotFound(err):
		store.Finish(t, entity.Deleted[ID]{ID: id})
		f.log.Debug().Str("kind", string(kind)).Any("id", id).Msg("item gone, removed from cache")
		return true, nil
	case err != nil:
		store.Finish(t, failed(entity.OpRead, err))
		f.log.Warn().Err(err).Str("kind", string(kind)).Any("id", id).Msg("refresh failed")
		return false, fmt.Errorf("load %s %v: %w", kind, id, err)
	}
	if !store.Finish(t, entity.Upserted[ID, T]{Item: item}) {
		f.stale(kind, fmt.Sprint(id))
	}
	return false, nil
}

// loadChildren reads every child of parent into a relational store.
func loadChildren[ID comparable, T entity.Entity[ID]](ctx context.Context, f *Fetcher, kind string, store *entity.NestedStore[int, ID, T], parent int, list func(context.Context, int, api.PageOptions) (api.Page[T], error)) error {
	t := store.BeginChildren(parent)
	items, total, err := api.ListAll(ctx, func(ctx context.Context, opts api.PageOptions) (api.Page[T], error) {
		return list(ctx, parent, opts)
	}, f.pageSize, nil)
	f.metrics.ObserveFetch(kind, "read", err)
	if err != nil {
		store.Finish(t, parent, failed(entity.OpRead, err))
		f.log.Warn().Err(err).Str("kind", kind).Int("parent", parent).Msg("load failed")
		return fmt.Errorf("load %s of %d: %w", kind, parent, err)
	}
	if !store.Finish(t, parent, entity.GetAllDone[ID, T]{Items: items, Results: total}) {
		f.stale(state.Kind(kind), fmt.Sprint(parent))
	}
	return nil
}

// write runs a mutating call against a collection, clearing the op's error
// slot first and recording a failure in it.
func write[ID comparable, T entity.Entity[ID]](f *Fetcher, kind state.Kind, op entity.Op, store *entity.Store[ID, T], call func() error) error {
	store.Dispatch(entity.WriteStarted{Op: op})
	err := call()
	f.metrics.ObserveFetch(string(kind), op.String(), err)
	if err != nil {
		store.Dispatch(failed(op, err))
		f.log.Warn().Err(err).Str("kind", string(kind)).Str("op", op.String()).Msg("write failed")
		return fmt.Errorf("%s %s: %w", op, kind, err)
	}
	return nil
}
