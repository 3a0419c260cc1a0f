// Package entity implements the normalized client-side cache used for every
// cloud resource type the console shows.
//
// # Overview
//
// A State holds one resource type keyed by id, plus request metadata: a
// loading flag, the time of the last complete read, an error slot per request
// kind and the server-reported total. All transitions are pure functions
// that return a new State and never mutate their input.
//
// # Transitions
//
//	OnStart            loading=true, read error cleared
//	OnWriteStart       clears the create/update/delete slot being retried
//	OnGetAllSuccess    replaces the collection, LastUpdated=now
//	OnGetPageSuccess   merges a page, LastUpdated=now only if total == len(page),
//	                   loading unchanged
//	OnCreateOrUpdate   upserts one item
//	OnDeleteSuccess    removes one item, Results=len(items)
//	OnError            merges populated error slots, loading=false
//	AddMany/RemoveMany bulk upsert/delete
//
// The Action types form a closed set and Reduce dispatches them with a
// single type switch.
//
// # Relational maps
//
// Nested caches children per parent id (disks per instance, configs per node
// balancer). A missing parent entry is created from Default on first use and
// ParentDeleted drops the whole entry in one step.
//
// # Stores and stale reads
//
// Store and NestedStore wrap a State behind a RWMutex. Every read and write
// of a store takes a number from one counter. A read result is discarded
// when something newer already landed in its scope: a later read of the same
// item, parent or collection, a later collection read for an item read, or a
// direct write such as Deleted or ParentDeleted. A collection result skips
// the items written or re-read since it began. The newest request wins, not
// the slowest response, and a delete seen mid-read stays deleted.
package entity
