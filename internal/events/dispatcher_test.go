package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/cirrus/internal/api"
)

func pct(v int) *int { return &v }

func event(id int, action string, status api.EventStatus, entityType string, entityID int) api.Event {
	return api.Event{
		ID:     id,
		Action: action,
		Status: status,
		Entity: &api.EventEntity{ID: entityID, Type: entityType},
	}
}

func newDispatcher(r Refresher) *Dispatcher {
	return NewDispatcher(DefaultRegistry(r), zerolog.Nop(), nil)
}

func TestDispatch_DeleteScheduledRemovesImmediately(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	n := d.Dispatch(context.Background(), event(1, "linode_delete", api.StatusScheduled, "linode", 5))

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"RemoveInstance(5)"}, rec.Calls())
}

func TestDispatch_DeleteAnyStatusRemoves(t *testing.T) {
	actions := map[string]string{
		"linode_delete":       "RemoveInstance(9)",
		"volume_delete":       "RemoveVolume(9)",
		"nodebalancer_delete": "RemoveNodeBalancer(9)",
		"domain_delete":       "RemoveDomain(9)",
		"lke_cluster_delete":  "RemoveCluster(9)",
	}
	for action, want := range actions {
		for _, status := range api.AllStatuses {
			rec := &recorder{}
			d := newDispatcher(rec)
			d.Dispatch(context.Background(), event(1, action, status, "x", 9))
			assert.Equal(t, []string{want}, rec.Calls(), "%s/%s", action, status)
		}
	}
}

func TestDispatch_RebuildFinishedRefreshesChildrenAndParent(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	ev := event(2, "linode_rebuild", api.StatusFinished, "linode", 7)
	ev.PercentComplete = pct(100)
	n := d.Dispatch(context.Background(), ev)

	assert.Equal(t, 1, n)
	calls := rec.Calls()
	assert.Contains(t, calls, "LoadDisks(7)")
	assert.Contains(t, calls, "LoadConfigs(7)")
	assert.Contains(t, calls, "LoadInstance(7)")
}

func TestDispatch_ScheduledOnlyOnFirstSighting(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)
	ctx := context.Background()

	d.Dispatch(ctx, event(3, "volume_resize", api.StatusScheduled, "volume", 4))
	d.Dispatch(ctx, event(3, "volume_resize", api.StatusScheduled, "volume", 4))
	assert.Equal(t, []string{"LoadVolume(4)"}, rec.Calls())

	d.Dispatch(ctx, event(3, "volume_resize", api.StatusFinished, "volume", 4))
	assert.Equal(t, []string{"LoadVolume(4)", "LoadVolume(4)"}, rec.Calls())

	status, ok := d.LastStatus("volume", 4, "volume_resize")
	require.True(t, ok)
	assert.Equal(t, api.StatusFinished, status)
}

func TestDispatch_FirstSightingIsPerEntity(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)
	ctx := context.Background()

	d.Dispatch(ctx, event(1, "volume_create", api.StatusScheduled, "volume", 1))
	d.Dispatch(ctx, event(2, "volume_create", api.StatusScheduled, "volume", 2))

	assert.Equal(t, []string{"LoadVolume(1)", "LoadVolume(2)"}, rec.Calls())
}

func TestDispatch_UnmappedIsNoop(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	n := d.Dispatch(context.Background(), event(1, "account_update", api.StatusNotification, "account", 1))
	assert.Zero(t, n)
	assert.Empty(t, rec.Calls())

	// volume_* is not refreshed while started.
	n = d.Dispatch(context.Background(), event(2, "volume_attach", api.StatusStarted, "volume", 1))
	assert.Zero(t, n)
}

func TestDispatch_MigrateRefreshesCollectionAtCompletion(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)
	ctx := context.Background()

	ev := event(5, "linode_migrate", api.StatusStarted, "linode", 3)
	ev.PercentComplete = pct(40)
	d.Dispatch(ctx, ev)
	assert.Equal(t, []string{"LoadInstance(3)"}, rec.Calls())

	ev.Status = api.StatusFinished
	ev.PercentComplete = pct(100)
	d.Dispatch(ctx, ev)
	assert.Equal(t, []string{"LoadInstance(3)", "LoadInstance(3)", "LoadInstances(0)"}, rec.Calls())
}

func TestDispatch_DiskAndConfigEventsTargetParentInstance(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)
	ctx := context.Background()

	d.Dispatch(ctx, event(1, "disk_create", api.StatusFinished, "linode", 8))
	d.Dispatch(ctx, event(2, "disk_resize", api.StatusFinished, "linode", 8))
	d.Dispatch(ctx, event(3, "linode_config_update", api.StatusFinished, "linode", 8))

	assert.Equal(t, []string{"LoadDisks(8)", "LoadDisks(8)", "LoadInstance(8)", "LoadConfigs(8)"}, rec.Calls())
}

func TestDispatch_NodeBalancerConfigAndClusterChildren(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)
	ctx := context.Background()

	d.Dispatch(ctx, event(1, "nodebalancer_config_create", api.StatusNotification, "nodebalancer", 6))
	d.Dispatch(ctx, event(2, "nodebalancer_update", api.StatusNotification, "nodebalancer", 6))
	d.Dispatch(ctx, event(3, "lke_node_recycle", api.StatusFinished, "lkecluster", 11))
	d.Dispatch(ctx, event(4, "domain_record_create", api.StatusNotification, "domain", 12))

	assert.Equal(t, []string{
		"LoadNodeBalancerConfigs(6)",
		"LoadNodeBalancer(6)",
		"LoadCluster(11)",
		"LoadDomain(12)",
	}, rec.Calls())
}

func TestDispatch_CloneRefreshesBothInstances(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	ev := event(1, "linode_clone", api.StatusFinished, "linode", 1)
	ev.SecondaryEntity = &api.EventEntity{ID: 2, Type: "linode"}
	d.Dispatch(context.Background(), ev)

	assert.Equal(t, []string{"LoadInstance(1)", "LoadInstance(2)"}, rec.Calls())
}

func TestDispatch_EventWithoutEntityIsSkipped(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	n := d.Dispatch(context.Background(), api.Event{ID: 1, Action: "linode_boot", Status: api.StatusFinished})
	assert.Equal(t, 1, n)
	assert.Empty(t, rec.Calls())
}

func TestDispatch_HandlerErrorDoesNotStopOthers(t *testing.T) {
	reg := NewRegistry()
	var ran []string
	reg.Handle("linode_boot", func(context.Context, api.Event, bool) error {
		ran = append(ran, "a")
		return errors.New("boom")
	})
	reg.Handle("linode_boot", func(context.Context, api.Event, bool) error {
		ran = append(ran, "b")
		return nil
	})
	d := NewDispatcher(reg, zerolog.Nop(), nil)

	n := d.Dispatch(context.Background(), event(1, "linode_boot", api.StatusStarted, "linode", 1))
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestDispatchAll_ChronologicalOrder(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(rec)

	newestFirst := []api.Event{
		event(3, "volume_delete", api.StatusFinished, "volume", 1),
		event(2, "volume_create", api.StatusFinished, "volume", 1),
	}
	total := d.DispatchAll(context.Background(), newestFirst)

	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"LoadVolume(1)", "RemoveVolume(1)"}, rec.Calls())
}
