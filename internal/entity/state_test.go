package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vm struct {
	ID    int
	Label string
}

func (v vm) EntityID() int { return v.ID }

type bucket struct {
	Cluster string
	Label   string
}

func (b bucket) EntityID() string { return b.Cluster + "/" + b.Label }

// stepClock returns a clock that advances one second per call.
func stepClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	prev := now
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

func vms(ids ...int) []vm {
	out := make([]vm, 0, len(ids))
	for _, id := range ids {
		out = append(out, vm{ID: id, Label: fmt.Sprintf("vm-%d", id)})
	}
	return out
}

func TestOnStart_SetsLoadingAndClearsReadError(t *testing.T) {
	s := Default[int, vm]()
	s.Error = Errors{Read: []Reason{{Reason: "boom"}}, Update: []Reason{{Reason: "keep"}}}
	s.Results = 4

	got := OnStart(s)

	assert.True(t, got.Loading)
	assert.Nil(t, got.Error.Read)
	assert.Equal(t, []Reason{{Reason: "keep"}}, got.Error.Update)
	assert.Equal(t, 4, got.Results)
	assert.True(t, got.LastUpdated.IsZero())
}

func TestOnGetAllSuccess_ReplacesAndAdvancesClock(t *testing.T) {
	stepClock(t)

	s := OnCreateOrUpdate(vm{ID: 99}, Default[int, vm]())
	s = OnStart(s)
	first := OnGetAllSuccess(vms(1, 2, 3), s, 3)

	require.Len(t, first.ItemsByID, 3)
	assert.NotContains(t, first.ItemsByID, 99)
	assert.False(t, first.Loading)
	assert.Equal(t, 3, first.Results)
	assert.False(t, first.LastUpdated.IsZero())

	second := OnGetAllSuccess(vms(1, 2, 3), first, 3)
	assert.True(t, second.LastUpdated.After(first.LastUpdated))
}

func TestOnGetAllSuccess_EmptyIsSuccess(t *testing.T) {
	stepClock(t)

	s := AddMany(vms(1, 2), Default[int, vm]())
	got := OnGetAllSuccess(nil, OnStart(s), 0)

	assert.Empty(t, got.ItemsByID)
	assert.NotNil(t, got.ItemsByID)
	assert.Equal(t, 0, got.Results)
	assert.False(t, got.LastUpdated.IsZero())
	assert.False(t, got.Error.Any())
}

func TestOnGetPageSuccess_PartialPageKeepsTimestamp(t *testing.T) {
	stepClock(t)

	s := OnGetAllSuccess(vms(1, 2), Default[int, vm](), 2)
	stamp := s.LastUpdated

	got := OnGetPageSuccess(vms(3, 4), s, 10)

	assert.Equal(t, stamp, got.LastUpdated)
	assert.Len(t, got.ItemsByID, 4, "page merge must not evict entries outside the page")
	assert.Equal(t, 10, got.Results)
	assert.False(t, got.Loading)
}

func TestOnGetPageSuccess_KeepsLoadingDuringRead(t *testing.T) {
	s := OnStart(Default[int, vm]())

	s = OnGetPageSuccess(vms(1, 2), s, 4)
	assert.True(t, s.Loading, "a page is not the end of the read")

	s = OnGetAllSuccess(vms(1, 2, 3, 4), s, 4)
	assert.False(t, s.Loading)
}

func TestOnGetPageSuccess_CompletePageAdvancesTimestamp(t *testing.T) {
	stepClock(t)

	s := OnGetAllSuccess(vms(1), Default[int, vm](), 1)
	got := OnGetPageSuccess(vms(1, 2), s, 2)

	assert.True(t, got.LastUpdated.After(s.LastUpdated))
}

func TestOnCreateOrUpdate_Idempotent(t *testing.T) {
	s := AddMany(vms(1, 2), Default[int, vm]())
	s.Loading = true
	item := vm{ID: 3, Label: "new"}

	once := OnCreateOrUpdate(item, s)
	twice := OnCreateOrUpdate(item, once)

	assert.Equal(t, once.ItemsByID, twice.ItemsByID)
	assert.Equal(t, s.Results, once.Results, "upsert leaves Results to the caller")
	assert.True(t, once.Loading)
}

func TestOnDeleteSuccess_RemovesOnlyThatID(t *testing.T) {
	base := AddMany(vms(1, 2, 3), Default[int, vm]())
	for _, id := range []int{2, 7} {
		t.Run(fmt.Sprintf("id %d", id), func(t *testing.T) {
			got := OnDeleteSuccess(id, OnCreateOrUpdate(vm{ID: id}, base))

			assert.NotContains(t, got.ItemsByID, id)
			for otherID, item := range base.ItemsByID {
				if otherID == id {
					continue
				}
				assert.Equal(t, item, got.ItemsByID[otherID])
			}
			assert.Equal(t, len(got.ItemsByID), got.Results)
		})
	}
}

func TestOnError_MergesOnlyPopulatedSlots(t *testing.T) {
	s := Default[int, vm]()
	s.Loading = true
	s.Error = Errors{Create: []Reason{{Field: "label", Reason: "taken"}}}

	got := OnError(Errors{Read: []Reason{{Reason: "An error occurred."}}}, s)

	assert.False(t, got.Loading)
	assert.Equal(t, []Reason{{Field: "label", Reason: "taken"}}, got.Error.Create)
	assert.Equal(t, []Reason{{Reason: "An error occurred."}}, got.Error.Read)
	assert.Nil(t, got.Error.Delete)
}

func TestOnWriteStart_ClearsOnlyThatSlot(t *testing.T) {
	s := Default[int, vm]()
	s.Error = Errors{
		Create: []Reason{{Reason: "c"}},
		Delete: []Reason{{Reason: "d"}},
	}

	got := OnWriteStart(OpDelete, s)

	assert.Nil(t, got.Error.Delete)
	assert.Equal(t, []Reason{{Reason: "c"}}, got.Error.Create)
	assert.False(t, got.Loading)
}

func TestAddManyRemoveMany_RoundTrip(t *testing.T) {
	s := AddMany(vms(1, 2), Default[int, vm]())
	before := s.Clone().ItemsByID

	added := AddMany(vms(10, 11, 12), s)
	require.Len(t, added.ItemsByID, 5)
	assert.Equal(t, 5, added.Results)

	removed := RemoveMany([]int{10, 11, 12}, added)
	assert.Equal(t, before, removed.ItemsByID)
}

func TestTransitions_DoNotMutateInput(t *testing.T) {
	s := AddMany(vms(1, 2), Default[int, vm]())
	snapshot := s.Clone()

	_ = OnCreateOrUpdate(vm{ID: 3}, s)
	_ = OnDeleteSuccess(1, s)
	_ = OnGetPageSuccess(vms(5), s, 9)
	_ = RemoveMany([]int{2}, s)

	assert.Equal(t, snapshot, s)
}

func TestState_KeysMatchIDs(t *testing.T) {
	s := OnGetAllSuccess(vms(4, 5, 6), Default[int, vm](), 3)
	s = OnGetPageSuccess(vms(7), s, 4)
	s = OnCreateOrUpdate(vm{ID: 8}, s)
	for id, item := range s.ItemsByID {
		assert.Equal(t, id, item.EntityID())
	}
}

func TestState_StringIDs(t *testing.T) {
	s := OnGetAllSuccess([]bucket{{Cluster: "us-east-1", Label: "logs"}}, Default[string, bucket](), 1)

	got, ok := s.Get("us-east-1/logs")
	require.True(t, ok)
	assert.Equal(t, "logs", got.Label)
}
