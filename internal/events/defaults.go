package events

import (
	"context"

	"github.com/five82/cirrus/internal/api"
)

// Refresher re-reads or evicts cached resources. The fetch layer implements
// it; Load errors are already recorded in the cache when returned.
type Refresher interface {
	LoadInstances(ctx context.Context) error
	LoadInstance(ctx context.Context, id int) error
	LoadDisks(ctx context.Context, linodeID int) error
	LoadConfigs(ctx context.Context, linodeID int) error
	LoadVolume(ctx context.Context, id int) error
	LoadNodeBalancer(ctx context.Context, id int) error
	LoadNodeBalancerConfigs(ctx context.Context, nodeBalancerID int) error
	LoadDomain(ctx context.Context, id int) error
	LoadCluster(ctx context.Context, id int) error

	RemoveInstance(id int)
	RemoveVolume(id int)
	RemoveNodeBalancer(id int)
	RemoveDomain(id int)
	RemoveCluster(id int)
}

var (
	// settled statuses carry the authoritative post-operation state.
	settled = []api.EventStatus{api.StatusFinished, api.StatusFailed, api.StatusNotification}
	// active statuses also include the first scheduled sighting.
	active = []api.EventStatus{api.StatusScheduled, api.StatusFinished, api.StatusFailed, api.StatusNotification}
	// tracked adds started for resources whose status changes while busy.
	tracked = api.AllStatuses
)

var instanceActions = []string{
	"linode_boot",
	"linode_reboot",
	"linode_shutdown",
	"linode_create",
	"linode_update",
	"linode_resize",
	"linode_resize_create",
	"linode_mutate",
	"linode_mutate_create",
	"linode_clone",
	"linode_snapshot",
	"linode_addip",
	"linode_deleteip",
	"backups_enable",
	"backups_cancel",
	"backups_restore",
}

var migrateActions = []string{
	"linode_migrate",
	"linode_migrate_datacenter",
	"linode_migrate_datacenter_create",
}

// DefaultRegistry builds the handler table that keeps the cache in line with
// the account's asynchronous jobs.
func DefaultRegistry(r Refresher) *Registry {
	reg := NewRegistry()

	refreshInstance := withEntity(func(ctx context.Context, ev api.Event) error {
		err := r.LoadInstance(ctx, ev.Entity.ID)
		if ev.Action == "linode_clone" && ev.SecondaryEntity != nil && ev.Status != api.StatusScheduled {
			err = firstErr(err, r.LoadInstance(ctx, ev.SecondaryEntity.ID))
		}
		return err
	})
	for _, action := range instanceActions {
		reg.Handle(action, refreshInstance, tracked...)
	}

	reg.Handle("linode_rebuild", refreshInstance, api.StatusScheduled, api.StatusStarted)
	reg.Handle("linode_rebuild", withEntity(func(ctx context.Context, ev api.Event) error {
		id := ev.Entity.ID
		return firstErr(
			r.LoadDisks(ctx, id),
			r.LoadConfigs(ctx, id),
			r.LoadInstance(ctx, id),
		)
	}), settled...)

	for _, action := range migrateActions {
		reg.Handle(action, withEntity(func(ctx context.Context, ev api.Event) error {
			err := r.LoadInstance(ctx, ev.Entity.ID)
			if completed(ev) {
				err = firstErr(err, r.LoadInstances(ctx))
			}
			return err
		}), tracked...)
	}

	reg.HandlePrefix("disk_", withEntity(func(ctx context.Context, ev api.Event) error {
		err := r.LoadDisks(ctx, ev.Entity.ID)
		if ev.Action == "disk_resize" {
			err = firstErr(err, r.LoadInstance(ctx, ev.Entity.ID))
		}
		return err
	}), active...)

	reg.HandlePrefix("linode_config_", withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadConfigs(ctx, ev.Entity.ID)
	}), active...)

	reg.HandlePrefix("volume_", withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadVolume(ctx, ev.Entity.ID)
	}), active...)

	reg.HandlePrefix("nodebalancer_", withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadNodeBalancer(ctx, ev.Entity.ID)
	}), active...)

	reg.HandlePrefix("nodebalancer_config_", withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadNodeBalancerConfigs(ctx, ev.Entity.ID)
	}), active...)

	refreshDomain := withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadDomain(ctx, ev.Entity.ID)
	})
	reg.HandlePrefix("domain_", refreshDomain, active...)
	reg.HandlePrefix("domain_record_", refreshDomain, active...)

	refreshCluster := withEntity(func(ctx context.Context, ev api.Event) error {
		return r.LoadCluster(ctx, ev.Entity.ID)
	})
	reg.HandlePrefix("lke_cluster_", refreshCluster, active...)
	reg.HandlePrefix("lke_pool_", refreshCluster, active...)
	reg.HandlePrefix("lke_node_", refreshCluster, active...)

	// A delete is acted on as soon as it is observed, whatever its status.
	removals := map[string]func(int){
		"linode_delete":       r.RemoveInstance,
		"volume_delete":       r.RemoveVolume,
		"nodebalancer_delete": r.RemoveNodeBalancer,
		"domain_delete":       r.RemoveDomain,
		"lke_cluster_delete":  r.RemoveCluster,
	}
	for action, remove := range removals {
		reg.Handle(action, func(_ context.Context, ev api.Event, _ bool) error {
			if ev.Entity != nil {
				remove(ev.Entity.ID)
			}
			return nil
		})
	}

	return reg
}

// withEntity adapts fn into a Handler that ignores events without a primary
// entity and repeated scheduled sightings.
func withEntity(fn func(ctx context.Context, ev api.Event) error) Handler {
	return func(ctx context.Context, ev api.Event, firstSeen bool) error {
		if ev.Entity == nil {
			return nil
		}
		if ev.Status == api.StatusScheduled && !firstSeen {
			return nil
		}
		return fn(ctx, ev)
	}
}

// completed reports whether a long-running job reached 100 percent.
func completed(ev api.Event) bool {
	if ev.Status != api.StatusFinished && ev.Status != api.StatusNotification {
		return false
	}
	pct, ok := ev.Progress()
	return ok && pct == 100
}

// IsDeleteAction reports whether action deletes its primary entity. Child
// deletes such as disk_delete name the parent as entity and do not count.
func IsDeleteAction(action string) bool {
	switch action {
	case "linode_delete", "volume_delete", "nodebalancer_delete", "domain_delete", "lke_cluster_delete":
		return true
	}
	return false
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
