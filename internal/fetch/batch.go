package fetch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/state"
)

// ErrNotDeletable is returned for kinds the console cannot delete.
var ErrNotDeletable = errors.New("resource kind cannot be deleted from the console")

// BatchError is one failed item of a batch operation.
type BatchError struct {
	ResourceID int    `json:"resource_id" yaml:"resource_id"`
	Reason     string `json:"reason" yaml:"reason"`
}

// BatchResult collects the outcome of a one-by-one batch operation.
type BatchResult struct {
	Succeeded []int        `json:"succeeded" yaml:"succeeded"`
	Failed    []BatchError `json:"failed" yaml:"failed"`
}

// OK reports whether every item succeeded.
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// Err summarizes the failures, or returns nil when OK.
func (r BatchResult) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		parts[i] = fmt.Sprintf("%d: %s", f.ResourceID, f.Reason)
	}
	return fmt.Errorf("%d of %d failed: %s", len(r.Failed), len(r.Failed)+len(r.Succeeded), strings.Join(parts, "; "))
}

// EnableBackups turns on backups for each instance in ids, one at a time.
// Failures do not stop the batch. Successful instances are marked as backed
// up in the cache.
func (f *Fetcher) EnableBackups(ctx context.Context, ids []int) BatchResult {
	var result BatchResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, BatchError{ResourceID: id, Reason: err.Error()})
			continue
		}
		err := f.client.EnableBackups(ctx, id)
		f.metrics.ObserveFetch(string(state.KindInstances), "enable_backups", err)
		if err != nil {
			result.Failed = append(result.Failed, BatchError{ResourceID: id, Reason: firstReason(err)})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		if inst, ok := f.store.Instances.Snapshot().Get(id); ok {
			inst.Backups.Enabled = true
			f.store.Instances.Dispatch(entity.Upserted[int, api.Instance]{Item: inst})
		}
	}
	f.log.Info().
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Msg("enable backups finished")
	return result
}

// InstancesWithoutBackups returns the ids of cached instances that do not
// have backups enabled, ascending.
func (f *Fetcher) InstancesWithoutBackups() []int {
	var ids []int
	for _, inst := range f.store.Instances.Snapshot().ItemsByID {
		if !inst.Backups.Enabled {
			ids = append(ids, inst.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func firstReason(err error) string {
	reasons := api.ReasonsOf(err)
	if len(reasons) == 0 {
		return api.DefaultReason
	}
	return reasons[0].Reason
}
