package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
)

// Kind names a cached resource collection.
type Kind string

const (
	KindInstances     Kind = "instances"
	KindVolumes       Kind = "volumes"
	KindNodeBalancers Kind = "nodebalancers"
	KindDomains       Kind = "domains"
	KindClusters      Kind = "clusters"
	KindBuckets       Kind = "buckets"
)

// Kinds lists the top-level collections in display order.
var Kinds = []Kind{KindInstances, KindVolumes, KindNodeBalancers, KindDomains, KindClusters, KindBuckets}

// ParseKind accepts a kind name or its singular form.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if name == string(k) || name+"s" == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", name)
}

// Connection describes the health of the event poll.
type Connection struct {
	LastPoll            time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (c Connection) IsOffline() bool {
	return c.ConsecutiveFailures >= 2
}

// Snapshot is a point-in-time copy of every cached collection.
type Snapshot struct {
	Instances           entity.State[int, api.Instance]
	Disks               entity.Nested[int, int, api.Disk]
	Configs             entity.Nested[int, int, api.InstanceConfig]
	Volumes             entity.State[int, api.Volume]
	NodeBalancers       entity.State[int, api.NodeBalancer]
	NodeBalancerConfigs entity.Nested[int, int, api.NodeBalancerConfig]
	Domains             entity.State[int, api.Domain]
	Clusters            entity.State[int, api.Cluster]
	Buckets             entity.State[string, api.Bucket]
	Connection          Connection
}

// Loading reports whether any top-level collection is loading.
func (s Snapshot) Loading() bool {
	return s.Instances.Loading || s.Volumes.Loading || s.NodeBalancers.Loading ||
		s.Domains.Loading || s.Clusters.Loading || s.Buckets.Loading
}

// Store holds one entity store per resource type plus the poll status.
type Store struct {
	Instances           *entity.Store[int, api.Instance]
	Disks               *entity.NestedStore[int, int, api.Disk]
	Configs             *entity.NestedStore[int, int, api.InstanceConfig]
	Volumes             *entity.Store[int, api.Volume]
	NodeBalancers       *entity.Store[int, api.NodeBalancer]
	NodeBalancerConfigs *entity.NestedStore[int, int, api.NodeBalancerConfig]
	Domains             *entity.Store[int, api.Domain]
	Clusters            *entity.Store[int, api.Cluster]
	Buckets             *entity.Store[string, api.Bucket]

	// tx orders multi-collection writes against Snapshot.
	tx   sync.RWMutex
	mu   sync.RWMutex
	conn Connection
}

// New returns a store with every collection at its default state.
func New() *Store {
	return &Store{
		Instances:           entity.NewStore[int, api.Instance](),
		Disks:               entity.NewNestedStore[int, int, api.Disk](),
		Configs:             entity.NewNestedStore[int, int, api.InstanceConfig](),
		Volumes:             entity.NewStore[int, api.Volume](),
		NodeBalancers:       entity.NewStore[int, api.NodeBalancer](),
		NodeBalancerConfigs: entity.NewNestedStore[int, int, api.NodeBalancerConfig](),
		Domains:             entity.NewStore[int, api.Domain](),
		Clusters:            entity.NewStore[int, api.Cluster](),
		Buckets:             entity.NewStore[string, api.Bucket](),
	}
}

// RecordPoll records the outcome of an event poll. A failure bumps the
// failure counter and keeps the error for display; a success resets both.
func (s *Store) RecordPoll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.LastPoll = time.Now()
	if err != nil {
		s.conn.LastError = err
		s.conn.ConsecutiveFailures++
		return
	}
	s.conn.LastError = nil
	s.conn.ConsecutiveFailures = 0
}

// Connection returns a copy of the poll status.
func (s *Store) Connection() Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := s.conn
	if s.conn.LastError != nil {
		conn.LastError = fmt.Errorf("%w", s.conn.LastError)
	}
	return conn
}

// Atomically runs fn so that no Snapshot observes it half done. Use it
// for writes that span collections, such as removing a parent together
// with its children. fn must not call Snapshot.
func (s *Store) Atomically(fn func()) {
	s.tx.Lock()
	defer s.tx.Unlock()
	fn()
}

// Snapshot returns copies of every collection. Writes made through
// Atomically are seen whole or not at all; other writes land per
// collection, so unrelated collections may be from slightly different
// moments.
func (s *Store) Snapshot() Snapshot {
	s.tx.RLock()
	defer s.tx.RUnlock()

	return Snapshot{
		Instances:           s.Instances.Snapshot(),
		Disks:               s.Disks.Snapshot(),
		Configs:             s.Configs.Snapshot(),
		Volumes:             s.Volumes.Snapshot(),
		NodeBalancers:       s.NodeBalancers.Snapshot(),
		NodeBalancerConfigs: s.NodeBalancerConfigs.Snapshot(),
		Domains:             s.Domains.Snapshot(),
		Clusters:            s.Clusters.Snapshot(),
		Buckets:             s.Buckets.Snapshot(),
		Connection:          s.Connection(),
	}
}
