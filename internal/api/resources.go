package api

import (
	"context"
	"fmt"
	"net/http"
)

// Cloud is the set of API calls the console uses. *Client implements it;
// tests substitute fakes.
type Cloud interface {
	ListInstances(ctx context.Context, opts PageOptions) (Page[Instance], error)
	GetInstance(ctx context.Context, id int) (Instance, error)
	CreateInstance(ctx context.Context, req CreateInstanceRequest) (Instance, error)
	UpdateInstance(ctx context.Context, id int, req UpdateInstanceRequest) (Instance, error)
	DeleteInstance(ctx context.Context, id int) error
	EnableBackups(ctx context.Context, id int) error
	ListDisks(ctx context.Context, linodeID int, opts PageOptions) (Page[Disk], error)
	ListInstanceConfigs(ctx context.Context, linodeID int, opts PageOptions) (Page[InstanceConfig], error)

	ListVolumes(ctx context.Context, opts PageOptions) (Page[Volume], error)
	GetVolume(ctx context.Context, id int) (Volume, error)
	CreateVolume(ctx context.Context, req CreateVolumeRequest) (Volume, error)
	DeleteVolume(ctx context.Context, id int) error

	ListNodeBalancers(ctx context.Context, opts PageOptions) (Page[NodeBalancer], error)
	GetNodeBalancer(ctx context.Context, id int) (NodeBalancer, error)
	DeleteNodeBalancer(ctx context.Context, id int) error
	ListNodeBalancerConfigs(ctx context.Context, nodeBalancerID int, opts PageOptions) (Page[NodeBalancerConfig], error)

	ListDomains(ctx context.Context, opts PageOptions) (Page[Domain], error)
	GetDomain(ctx context.Context, id int) (Domain, error)
	DeleteDomain(ctx context.Context, id int) error

	ListClusters(ctx context.Context, opts PageOptions) (Page[Cluster], error)
	GetCluster(ctx context.Context, id int) (Cluster, error)
	DeleteCluster(ctx context.Context, id int) error

	ListBuckets(ctx context.Context, opts PageOptions) (Page[Bucket], error)

	ListEvents(ctx context.Context, opts PageOptions, filter Filter) (Page[Event], error)
	MarkEventSeen(ctx context.Context, id int) error
}

// Ensure Client implements Cloud at compile time.
var _ Cloud = (*Client)(nil)

// CreateInstanceRequest is the body of POST /linode/instances.
type CreateInstanceRequest struct {
	Label  string `json:"label"`
	Region string `json:"region"`
	Type   string `json:"type"`
	Image  string `json:"image,omitempty"`
}

// UpdateInstanceRequest is the body of PUT /linode/instances/{id}.
type UpdateInstanceRequest struct {
	Label string   `json:"label,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// CreateVolumeRequest is the body of POST /volumes.
type CreateVolumeRequest struct {
	Label    string `json:"label"`
	Region   string `json:"region,omitempty"`
	Size     int    `json:"size"`
	LinodeID *int   `json:"linode_id,omitempty"`
}

// ListInstances returns one page of instances.
func (c *Client) ListInstances(ctx context.Context, opts PageOptions) (Page[Instance], error) {
	return listPage[Instance](ctx, c, "/linode/instances", opts, nil)
}

// GetInstance returns one instance.
func (c *Client) GetInstance(ctx context.Context, id int) (Instance, error) {
	var out Instance
	err := c.get(ctx, fmt.Sprintf("/linode/instances/%d", id), &out)
	return out, err
}

// CreateInstance provisions an instance.
func (c *Client) CreateInstance(ctx context.Context, req CreateInstanceRequest) (Instance, error) {
	var out Instance
	err := c.do(ctx, request{method: http.MethodPost, path: "/linode/instances", body: req}, &out)
	return out, err
}

// UpdateInstance changes an instance's label or tags.
func (c *Client) UpdateInstance(ctx context.Context, id int, req UpdateInstanceRequest) (Instance, error) {
	var out Instance
	err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/linode/instances/%d", id), body: req}, &out)
	return out, err
}

// DeleteInstance deletes an instance.
func (c *Client) DeleteInstance(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/linode/instances/%d", id))
}

// EnableBackups turns on the backup service for an instance.
func (c *Client) EnableBackups(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/linode/instances/%d/backups/enable", id)}, nil)
}

// ListDisks returns one page of an instance's disks.
func (c *Client) ListDisks(ctx context.Context, linodeID int, opts PageOptions) (Page[Disk], error) {
	return listPage[Disk](ctx, c, fmt.Sprintf("/linode/instances/%d/disks", linodeID), opts, nil)
}

// ListInstanceConfigs returns one page of an instance's config profiles.
func (c *Client) ListInstanceConfigs(ctx context.Context, linodeID int, opts PageOptions) (Page[InstanceConfig], error) {
	return listPage[InstanceConfig](ctx, c, fmt.Sprintf("/linode/instances/%d/configs", linodeID), opts, nil)
}

// ListVolumes returns one page of volumes.
func (c *Client) ListVolumes(ctx context.Context, opts PageOptions) (Page[Volume], error) {
	return listPage[Volume](ctx, c, "/volumes", opts, nil)
}

// GetVolume returns one volume.
func (c *Client) GetVolume(ctx context.Context, id int) (Volume, error) {
	var out Volume
	err := c.get(ctx, fmt.Sprintf("/volumes/%d", id), &out)
	return out, err
}

// CreateVolume creates a volume.
func (c *Client) CreateVolume(ctx context.Context, req CreateVolumeRequest) (Volume, error) {
	var out Volume
	err := c.do(ctx, request{method: http.MethodPost, path: "/volumes", body: req}, &out)
	return out, err
}

// DeleteVolume deletes a volume.
func (c *Client) DeleteVolume(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/volumes/%d", id))
}

// ListNodeBalancers returns one page of node balancers.
func (c *Client) ListNodeBalancers(ctx context.Context, opts PageOptions) (Page[NodeBalancer], error) {
	return listPage[NodeBalancer](ctx, c, "/nodebalancers", opts, nil)
}

// GetNodeBalancer returns one node balancer.
func (c *Client) GetNodeBalancer(ctx context.Context, id int) (NodeBalancer, error) {
	var out NodeBalancer
	err := c.get(ctx, fmt.Sprintf("/nodebalancers/%d", id), &out)
	return out, err
}

// DeleteNodeBalancer deletes a node balancer.
func (c *Client) DeleteNodeBalancer(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/nodebalancers/%d", id))
}

// ListNodeBalancerConfigs returns one page of a node balancer's configs.
func (c *Client) ListNodeBalancerConfigs(ctx context.Context, nodeBalancerID int, opts PageOptions) (Page[NodeBalancerConfig], error) {
	return listPage[NodeBalancerConfig](ctx, c, fmt.Sprintf("/nodebalancers/%d/configs", nodeBalancerID), opts, nil)
}

// ListDomains returns one page of domains.
func (c *Client) ListDomains(ctx context.Context, opts PageOptions) (Page[Domain], error) {
	return listPage[Domain](ctx, c, "/domains", opts, nil)
}

// GetDomain returns one domain.
func (c *Client) GetDomain(ctx context.Context, id int) (Domain, error) {
	var out Domain
	err := c.get(ctx, fmt.Sprintf("/domains/%d", id), &out)
	return out, err
}

// DeleteDomain deletes a domain.
func (c *Client) DeleteDomain(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/domains/%d", id))
}

// ListClusters returns one page of Kubernetes clusters.
func (c *Client) ListClusters(ctx context.Context, opts PageOptions) (Page[Cluster], error) {
	return listPage[Cluster](ctx, c, "/lke/clusters", opts, nil)
}

// GetCluster returns one Kubernetes cluster.
func (c *Client) GetCluster(ctx context.Context, id int) (Cluster, error) {
	var out Cluster
	err := c.get(ctx, fmt.Sprintf("/lke/clusters/%d", id), &out)
	return out, err
}

// DeleteCluster deletes a Kubernetes cluster.
func (c *Client) DeleteCluster(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/lke/clusters/%d", id))
}

// ListBuckets returns one page of object storage buckets.
func (c *Client) ListBuckets(ctx context.Context, opts PageOptions) (Page[Bucket], error) {
	return listPage[Bucket](ctx, c, "/object-storage/buckets", opts, nil)
}

// ListEvents returns one page of account events matching filter.
func (c *Client) ListEvents(ctx context.Context, opts PageOptions, filter Filter) (Page[Event], error) {
	return listPage[Event](ctx, c, "/account/events", opts, filter)
}

// MarkEventSeen marks id and every older event as seen.
func (c *Client) MarkEventSeen(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/account/events/%d/seen", id)}, nil)
}
