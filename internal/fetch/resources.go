package fetch

import (
	"context"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/state"
)

const (
	kindDisks               = "disks"
	kindConfigs             = "configs"
	kindNodeBalancerConfigs = "nodebalancer_configs"
)

// LoadInstances loads every instance.
func (f *Fetcher) LoadInstances(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindInstances, f.store.Instances, f.client.ListInstances)
}

// LoadInstance refreshes one instance. A deleted instance is removed along
// with its disks and configs.
func (f *Fetcher) LoadInstance(ctx context.Context, id int) error {
	gone, err := loadItem(ctx, f, state.KindInstances, f.store.Instances, id, f.client.GetInstance)
	if gone {
		f.RemoveInstance(id)
	}
	return err
}

// LoadDisks loads an instance's disks.
func (f *Fetcher) LoadDisks(ctx context.Context, linodeID int) error {
	return loadChildren(ctx, f, kindDisks, f.store.Disks, linodeID, f.client.ListDisks)
}

// LoadConfigs loads an instance's config profiles.
func (f *Fetcher) LoadConfigs(ctx context.Context, linodeID int) error {
	return loadChildren(ctx, f, kindConfigs, f.store.Configs, linodeID, f.client.ListInstanceConfigs)
}

// LoadVolumes loads every volume.
func (f *Fetcher) LoadVolumes(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindVolumes, f.store.Volumes, f.client.ListVolumes)
}

// LoadVolume refreshes one volume.
func (f *Fetcher) LoadVolume(ctx context.Context, id int) error {
	_, err := loadItem(ctx, f, state.KindVolumes, f.store.Volumes, id, f.client.GetVolume)
	return err
}

// LoadNodeBalancers loads every node balancer.
func (f *Fetcher) LoadNodeBalancers(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindNodeBalancers, f.store.NodeBalancers, f.client.ListNodeBalancers)
}

// LoadNodeBalancer refreshes one node balancer. A deleted node balancer is
// removed along with its configs.
func (f *Fetcher) LoadNodeBalancer(ctx context.Context, id int) error {
	gone, err := loadItem(ctx, f, state.KindNodeBalancers, f.store.NodeBalancers, id, f.client.GetNodeBalancer)
	if gone {
		f.RemoveNodeBalancer(id)
	}
	return err
}

// LoadNodeBalancerConfigs loads a node balancer's port configs.
func (f *Fetcher) LoadNodeBalancerConfigs(ctx context.Context, nodeBalancerID int) error {
	return loadChildren(ctx, f, kindNodeBalancerConfigs, f.store.NodeBalancerConfigs, nodeBalancerID, f.client.ListNodeBalancerConfigs)
}

// LoadDomains loads every domain.
func (f *Fetcher) LoadDomains(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindDomains, f.store.Domains, f.client.ListDomains)
}

// LoadDomain refreshes one domain.
func (f *Fetcher) LoadDomain(ctx context.Context, id int) error {
	_, err := loadItem(ctx, f, state.KindDomains, f.store.Domains, id, f.client.GetDomain)
	return err
}

// LoadClusters loads every Kubernetes cluster.
func (f *Fetcher) LoadClusters(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindClusters, f.store.Clusters, f.client.ListClusters)
}

// LoadCluster refreshes one Kubernetes cluster.
func (f *Fetcher) LoadCluster(ctx context.Context, id int) error {
	_, err := loadItem(ctx, f, state.KindClusters, f.store.Clusters, id, f.client.GetCluster)
	return err
}

// LoadBuckets loads every object storage bucket.
func (f *Fetcher) LoadBuckets(ctx context.Context) error {
	return loadCollection(ctx, f, state.KindBuckets, f.store.Buckets, f.client.ListBuckets)
}

// RemoveInstance drops an instance and all of its children from the cache.
func (f *Fetcher) RemoveInstance(id int) {
	f.store.Atomically(func() {
		f.store.Instances.Dispatch(entity.Deleted[int]{ID: id})
		f.store.Disks.Dispatch(entity.ParentDeleted[int]{Parent: id})
		f.store.Configs.Dispatch(entity.ParentDeleted[int]{Parent: id})
	})
}

// RemoveVolume drops a volume from the cache.
func (f *Fetcher) RemoveVolume(id int) {
	f.store.Volumes.Dispatch(entity.Deleted[int]{ID: id})
}

// RemoveNodeBalancer drops a node balancer and its configs from the cache.
func (f *Fetcher) RemoveNodeBalancer(id int) {
	f.store.Atomically(func() {
		f.store.NodeBalancers.Dispatch(entity.Deleted[int]{ID: id})
		f.store.NodeBalancerConfigs.Dispatch(entity.ParentDeleted[int]{Parent: id})
	})
}

// RemoveDomain drops a domain from the cache.
func (f *Fetcher) RemoveDomain(id int) {
	f.store.Domains.Dispatch(entity.Deleted[int]{ID: id})
}

// RemoveCluster drops a Kubernetes cluster from the cache.
func (f *Fetcher) RemoveCluster(id int) {
	f.store.Clusters.Dispatch(entity.Deleted[int]{ID: id})
}

// CreateVolume creates a volume and caches it.
func (f *Fetcher) CreateVolume(ctx context.Context, req api.CreateVolumeRequest) (api.Volume, error) {
	var vol api.Volume
	err := write(f, state.KindVolumes, entity.OpCreate, f.store.Volumes, func() error {
		var err error
		vol, err = f.client.CreateVolume(ctx, req)
		return err
	})
	if err != nil {
		return api.Volume{}, err
	}
	f.store.Volumes.Dispatch(entity.Upserted[int, api.Volume]{Item: vol})
	return vol, nil
}

// RenameInstance changes an instance's label and caches the result.
func (f *Fetcher) RenameInstance(ctx context.Context, id int, label string) (api.Instance, error) {
	var inst api.Instance
	err := write(f, state.KindInstances, entity.OpUpdate, f.store.Instances, func() error {
		var err error
		inst, err = f.client.UpdateInstance(ctx, id, api.UpdateInstanceRequest{Label: label})
		return err
	})
	if err != nil {
		return api.Instance{}, err
	}
	f.store.Instances.Dispatch(entity.Upserted[int, api.Instance]{Item: inst})
	return inst, nil
}

// DeleteInstance deletes an instance and removes it from the cache.
func (f *Fetcher) DeleteInstance(ctx context.Context, id int) error {
	err := write(f, state.KindInstances, entity.OpDelete, f.store.Instances, func() error {
		return f.client.DeleteInstance(ctx, id)
	})
	if err == nil {
		f.RemoveInstance(id)
	}
	return err
}

// DeleteVolume deletes a volume and removes it from the cache.
func (f *Fetcher) DeleteVolume(ctx context.Context, id int) error {
	err := write(f, state.KindVolumes, entity.OpDelete, f.store.Volumes, func() error {
		return f.client.DeleteVolume(ctx, id)
	})
	if err == nil {
		f.RemoveVolume(id)
	}
	return err
}

// DeleteNodeBalancer deletes a node balancer and removes it from the cache.
func (f *Fetcher) DeleteNodeBalancer(ctx context.Context, id int) error {
	err := write(f, state.KindNodeBalancers, entity.OpDelete, f.store.NodeBalancers, func() error {
		return f.client.DeleteNodeBalancer(ctx, id)
	})
	if err == nil {
		f.RemoveNodeBalancer(id)
	}
	return err
}

// DeleteDomain deletes a domain and removes it from the cache.
func (f *Fetcher) DeleteDomain(ctx context.Context, id int) error {
	err := write(f, state.KindDomains, entity.OpDelete, f.store.Domains, func() error {
		return f.client.DeleteDomain(ctx, id)
	})
	if err == nil {
		f.RemoveDomain(id)
	}
	return err
}

// DeleteCluster deletes a Kubernetes cluster and removes it from the cache.
func (f *Fetcher) DeleteCluster(ctx context.Context, id int) error {
	err := write(f, state.KindClusters, entity.OpDelete, f.store.Clusters, func() error {
		return f.client.DeleteCluster(ctx, id)
	})
	if err == nil {
		f.RemoveCluster(id)
	}
	return err
}

// Delete deletes a resource of kind by id. Buckets cannot be deleted here.
func (f *Fetcher) Delete(ctx context.Context, kind state.Kind, id int) error {
	switch kind {
	case state.KindInstances:
		return f.DeleteInstance(ctx, id)
	case state.KindVolumes:
		return f.DeleteVolume(ctx, id)
	case state.KindNodeBalancers:
		return f.DeleteNodeBalancer(ctx, id)
	case state.KindDomains:
		return f.DeleteDomain(ctx, id)
	case state.KindClusters:
		return f.DeleteCluster(ctx, id)
	default:
		return ErrNotDeletable
	}
}
