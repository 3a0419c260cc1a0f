// Package state holds the console's cached view of the account.
//
// # Overview
//
// Store bundles one entity.Store per top-level resource type, the nested
// stores for children that are only ever fetched through a parent, and the
// health of the event poll. It is the single place where the fetch layer
// writes and where renderers read.
//
// # Architecture
//
//	Writers (fetch, poller):           Readers (UI, CLI):
//	┌──────────────────────┐          ┌──────────────────┐
//	│ Instances.BeginRead()│          │                  │
//	│ Instances.Finish()   │─────────→│ store.Snapshot() │
//	│ Disks.Dispatch()     │ (mutex   │        ↓         │
//	│ store.RecordPoll()   │  per     │   render view    │
//	└──────────────────────┘  store)  └──────────────────┘
//
// # Collections
//
//	Instances            entity.Store[int, api.Instance]
//	Disks                entity.NestedStore[instance id, disk id]
//	Configs              entity.NestedStore[instance id, config id]
//	Volumes              entity.Store[int, api.Volume]
//	NodeBalancers        entity.Store[int, api.NodeBalancer]
//	NodeBalancerConfigs  entity.NestedStore[node balancer id, config id]
//	Domains              entity.Store[int, api.Domain]
//	Clusters             entity.Store[int, api.Cluster]
//	Buckets              entity.Store["cluster/label", api.Bucket]
//
// Each collection has its own lock. Snapshot copies them one after another,
// so a snapshot taken mid-update can show a new instance list next to disks
// from the previous read. Renderers tolerate that. Removing a parent is the
// exception: the parent and its children go inside Atomically, and Snapshot
// waits for it, so no snapshot shows children of a deleted parent.
//
// # Connection Status
//
// RecordPoll is called once per event poll:
//
//	store.RecordPoll(nil)  → ConsecutiveFailures = 0, LastError = nil
//	store.RecordPoll(err)  → ConsecutiveFailures++, LastError = err
//
// Cached data is never cleared on a failed poll. IsOffline reports true after
// two consecutive failures so a single dropped request does not flash an
// offline banner.
//
// # Usage Example
//
//	store := state.New()
//	t := store.Volumes.BeginRead()
//	vols, total, err := api.ListAll(ctx, client.ListVolumes, 100, nil)
//	if err != nil {
//		store.Volumes.Finish(t, entity.Failed{Errors: entity.ErrorsFor(entity.OpRead, reasons)})
//	} else {
//		store.Volumes.Finish(t, entity.GetAllDone[int, api.Volume]{Items: vols, Results: total})
//	}
//
//	snap := store.Snapshot()
//	render(snap.Volumes.Items())
package state
