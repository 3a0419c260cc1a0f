package events

import (
	"context"
	"fmt"
	"sync"
)

// recorder is a Refresher that records every call as "Method(id)".
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (r *recorder) record(name string, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := fmt.Sprintf("%s(%d)", name, id)
	r.calls = append(r.calls, call)
	return r.fail[call]
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) LoadInstances(context.Context) error { return r.record("LoadInstances", 0) }
func (r *recorder) LoadInstance(_ context.Context, id int) error {
	return r.record("LoadInstance", id)
}
func (r *recorder) LoadDisks(_ context.Context, id int) error { return r.record("LoadDisks", id) }
func (r *recorder) LoadConfigs(_ context.Context, id int) error {
	return r.record("LoadConfigs", id)
}
func (r *recorder) LoadVolume(_ context.Context, id int) error { return r.record("LoadVolume", id) }
func (r *recorder) LoadNodeBalancer(_ context.Context, id int) error {
	return r.record("LoadNodeBalancer", id)
}
func (r *recorder) LoadNodeBalancerConfigs(_ context.Context, id int) error {
	return r.record("LoadNodeBalancerConfigs", id)
}
func (r *recorder) LoadDomain(_ context.Context, id int) error { return r.record("LoadDomain", id) }
func (r *recorder) LoadCluster(_ context.Context, id int) error {
	return r.record("LoadCluster", id)
}
func (r *recorder) RemoveInstance(id int)     { _ = r.record("RemoveInstance", id) }
func (r *recorder) RemoveVolume(id int)       { _ = r.record("RemoveVolume", id) }
func (r *recorder) RemoveNodeBalancer(id int) { _ = r.record("RemoveNodeBalancer", id) }
func (r *recorder) RemoveDomain(id int)       { _ = r.record("RemoveDomain", id) }
func (r *recorder) RemoveCluster(id int)      { _ = r.record("RemoveCluster", id) }

var _ Refresher = (*recorder)(nil)
