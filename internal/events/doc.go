// Package events turns the account event stream into cache refreshes.
//
// # Dispatch
//
// A Registry maps (action, status) pairs to handlers and is built once at
// startup. Actions can be registered exactly or by prefix ("disk_"); an exact
// registration shadows every prefix for the same status, and among prefixes
// the longest wins. Pairs with no handler are ignored.
//
// The Dispatcher remembers the last status it saw for each (entity type,
// entity id, action) and tells handlers whether the current event is the
// first sighting. DefaultRegistry uses that to refresh a resource on the first
// "scheduled" event only, since later scheduled sightings carry nothing new.
//
// Default table:
//
//	linode_* (boot, reboot, resize, ...)  every status   refresh instance
//	linode_rebuild                        settled        refresh disks, configs, instance
//	linode_migrate*                       every status   refresh instance; full list at 100%
//	disk_*                                active         refresh disks (disk_resize: + instance)
//	linode_config_*                       active         refresh configs
//	volume_*, nodebalancer_*, domain_*    active         refresh entity
//	nodebalancer_config_*                 active         refresh node balancer configs
//	lke_cluster_*, lke_pool_*, lke_node_* active         refresh cluster
//	*_delete (entity-level)               every status   remove from cache
//
// "settled" is finished, failed and notification; "active" adds the first
// scheduled sighting.
//
// # Feed
//
// Feed keeps recent events newest first, counts unseen ones, tracks events in
// progress (percent_complete below 100) and builds the X-Filter for the next
// poll: everything created at or after the newest event, plus in-progress ids,
// minus ids already held at exactly that timestamp.
package events
