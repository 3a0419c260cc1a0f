package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/five82/cirrus/internal/api"
)

// fakeCloud serves canned data and records calls. Unset methods return an
// empty page or a 404.
type fakeCloud struct {
	mu    sync.Mutex
	calls []string

	instances []api.Instance
	disks     map[int][]api.Disk
	configs   map[int][]api.InstanceConfig
	volumes   []api.Volume
	nbConfigs map[int][]api.NodeBalancerConfig
	buckets   []api.Bucket
	pageSize  int

	errs map[string]error

	// entered and gate, when set, let a test hold ListVolumes mid-flight.
	entered chan struct{}
	gate    chan struct{}
}

var _ api.Cloud = (*fakeCloud)(nil)

func (c *fakeCloud) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.errs[call]
}

func (c *fakeCloud) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func notFound(path string) error {
	return &api.Error{StatusCode: http.StatusNotFound, Method: http.MethodGet, Path: path}
}

func page[T any](all []T, opts api.PageOptions) api.Page[T] {
	size := opts.PageSize
	if size <= 0 {
		size = len(all)
	}
	p := opts.Page
	if p <= 0 {
		p = 1
	}
	pages := 1
	if size > 0 {
		pages = (len(all) + size - 1) / size
	}
	if pages == 0 {
		pages = 1
	}
	start := min((p-1)*size, len(all))
	end := min(start+size, len(all))
	return api.Page[T]{Data: all[start:end], Page: p, Pages: pages, Results: len(all)}
}

func (c *fakeCloud) ListInstances(_ context.Context, opts api.PageOptions) (api.Page[api.Instance], error) {
	if err := c.record(fmt.Sprintf("ListInstances(%d)", opts.Page)); err != nil {
		return api.Page[api.Instance]{}, err
	}
	return page(c.instances, opts), nil
}

func (c *fakeCloud) GetInstance(_ context.Context, id int) (api.Instance, error) {
	if err := c.record(fmt.Sprintf("GetInstance(%d)", id)); err != nil {
		return api.Instance{}, err
	}
	for _, inst := range c.instances {
		if inst.ID == id {
			return inst, nil
		}
	}
	return api.Instance{}, notFound(fmt.Sprintf("/linode/instances/%d", id))
}

func (c *fakeCloud) CreateInstance(_ context.Context, req api.CreateInstanceRequest) (api.Instance, error) {
	if err := c.record("CreateInstance"); err != nil {
		return api.Instance{}, err
	}
	return api.Instance{ID: 999, Label: req.Label}, nil
}

func (c *fakeCloud) UpdateInstance(_ context.Context, id int, req api.UpdateInstanceRequest) (api.Instance, error) {
	if err := c.record(fmt.Sprintf("UpdateInstance(%d)", id)); err != nil {
		return api.Instance{}, err
	}
	return api.Instance{ID: id, Label: req.Label}, nil
}

func (c *fakeCloud) DeleteInstance(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("DeleteInstance(%d)", id))
}

func (c *fakeCloud) EnableBackups(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("EnableBackups(%d)", id))
}

func (c *fakeCloud) ListDisks(_ context.Context, linodeID int, opts api.PageOptions) (api.Page[api.Disk], error) {
	if err := c.record(fmt.Sprintf("ListDisks(%d)", linodeID)); err != nil {
		return api.Page[api.Disk]{}, err
	}
	return page(c.disks[linodeID], opts), nil
}

func (c *fakeCloud) ListInstanceConfigs(_ context.Context, linodeID int, opts api.PageOptions) (api.Page[api.InstanceConfig], error) {
	if err := c.record(fmt.Sprintf("ListInstanceConfigs(%d)", linodeID)); err != nil {
		return api.Page[api.InstanceConfig]{}, err
	}
	return page(c.configs[linodeID], opts), nil
}

func (c *fakeCloud) ListVolumes(_ context.Context, opts api.PageOptions) (api.Page[api.Volume], error) {
	if c.entered != nil {
		c.entered <- struct{}{}
	}
	if c.gate != nil {
		<-c.gate
	}
	if err := c.record(fmt.Sprintf("ListVolumes(%d)", opts.Page)); err != nil {
		return api.Page[api.Volume]{}, err
	}
	return page(c.volumes, opts), nil
}

func (c *fakeCloud) GetVolume(_ context.Context, id int) (api.Volume, error) {
	if err := c.record(fmt.Sprintf("GetVolume(%d)", id)); err != nil {
		return api.Volume{}, err
	}
	for _, v := range c.volumes {
		if v.ID == id {
			return v, nil
		}
	}
	return api.Volume{}, notFound(fmt.Sprintf("/volumes/%d", id))
}

func (c *fakeCloud) CreateVolume(_ context.Context, req api.CreateVolumeRequest) (api.Volume, error) {
	if err := c.record("CreateVolume"); err != nil {
		return api.Volume{}, err
	}
	return api.Volume{ID: 77, Label: req.Label, Size: req.Size}, nil
}

func (c *fakeCloud) DeleteVolume(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("DeleteVolume(%d)", id))
}

func (c *fakeCloud) ListNodeBalancers(_ context.Context, opts api.PageOptions) (api.Page[api.NodeBalancer], error) {
	if err := c.record("ListNodeBalancers"); err != nil {
		return api.Page[api.NodeBalancer]{}, err
	}
	return page([]api.NodeBalancer(nil), opts), nil
}

func (c *fakeCloud) GetNodeBalancer(_ context.Context, id int) (api.NodeBalancer, error) {
	if err := c.record(fmt.Sprintf("GetNodeBalancer(%d)", id)); err != nil {
		return api.NodeBalancer{}, err
	}
	return api.NodeBalancer{}, notFound(fmt.Sprintf("/nodebalancers/%d", id))
}

func (c *fakeCloud) DeleteNodeBalancer(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("DeleteNodeBalancer(%d)", id))
}

func (c *fakeCloud) ListNodeBalancerConfigs(_ context.Context, id int, opts api.PageOptions) (api.Page[api.NodeBalancerConfig], error) {
	if err := c.record(fmt.Sprintf("ListNodeBalancerConfigs(%d)", id)); err != nil {
		return api.Page[api.NodeBalancerConfig]{}, err
	}
	return page(c.nbConfigs[id], opts), nil
}

func (c *fakeCloud) ListDomains(_ context.Context, opts api.PageOptions) (api.Page[api.Domain], error) {
	if err := c.record("ListDomains"); err != nil {
		return api.Page[api.Domain]{}, err
	}
	return page([]api.Domain(nil), opts), nil
}

func (c *fakeCloud) GetDomain(_ context.Context, id int) (api.Domain, error) {
	if err := c.record(fmt.Sprintf("GetDomain(%d)", id)); err != nil {
		return api.Domain{}, err
	}
	return api.Domain{ID: id, Domain: "example.com"}, nil
}

func (c *fakeCloud) DeleteDomain(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("DeleteDomain(%d)", id))
}

func (c *fakeCloud) ListClusters(_ context.Context, opts api.PageOptions) (api.Page[api.Cluster], error) {
	if err := c.record("ListClusters"); err != nil {
		return api.Page[api.Cluster]{}, err
	}
	return page([]api.Cluster(nil), opts), nil
}

func (c *fakeCloud) GetCluster(_ context.Context, id int) (api.Cluster, error) {
	if err := c.record(fmt.Sprintf("GetCluster(%d)", id)); err != nil {
		return api.Cluster{}, err
	}
	return api.Cluster{ID: id, Label: "k8s"}, nil
}

func (c *fakeCloud) DeleteCluster(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("DeleteCluster(%d)", id))
}

func (c *fakeCloud) ListBuckets(_ context.Context, opts api.PageOptions) (api.Page[api.Bucket], error) {
	if err := c.record("ListBuckets"); err != nil {
		return api.Page[api.Bucket]{}, err
	}
	return page(c.buckets, opts), nil
}

func (c *fakeCloud) ListEvents(_ context.Context, opts api.PageOptions, _ api.Filter) (api.Page[api.Event], error) {
	if err := c.record("ListEvents"); err != nil {
		return api.Page[api.Event]{}, err
	}
	return page([]api.Event(nil), opts), nil
}

func (c *fakeCloud) MarkEventSeen(_ context.Context, id int) error {
	return c.record(fmt.Sprintf("MarkEventSeen(%d)", id))
}
