package api

import (
	"strconv"
	"time"
)

// apiTimestampLayout is the API's timestamp format. Values are UTC.
const apiTimestampLayout = "2006-01-02T15:04:05"

// Page is one page of a paginated collection.
type Page[T any] struct {
	Data    []T `json:"data"`
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Results int `json:"results"`
}

// Instance is a virtual machine.
type Instance struct {
	ID      int      `json:"id"`
	Label   string   `json:"label"`
	Region  string   `json:"region"`
	Type    string   `json:"type"`
	Image   string   `json:"image"`
	Status  string   `json:"status"`
	IPv4    []string `json:"ipv4"`
	Tags    []string `json:"tags"`
	Created string   `json:"created"`
	Updated string   `json:"updated"`
	Backups struct {
		Enabled bool `json:"enabled"`
	} `json:"backups"`
}

func (i Instance) EntityID() int { return i.ID }

// Disk belongs to an instance.
type Disk struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Size       int    `json:"size"`
	Filesystem string `json:"filesystem"`
	Status     string `json:"status"`
}

func (d Disk) EntityID() int { return d.ID }

// InstanceConfig is a boot configuration profile of an instance.
type InstanceConfig struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Kernel     string `json:"kernel"`
	RootDevice string `json:"root_device"`
	RunLevel   string `json:"run_level"`
}

func (c InstanceConfig) EntityID() int { return c.ID }

// Volume is a block storage volume.
type Volume struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Region   string `json:"region"`
	Size     int    `json:"size"`
	Status   string `json:"status"`
	LinodeID *int   `json:"linode_id"`
}

func (v Volume) EntityID() int { return v.ID }

// NodeBalancer is a load balancer.
type NodeBalancer struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Region   string `json:"region"`
	Hostname string `json:"hostname"`
	IPv4     string `json:"ipv4"`
}

func (n NodeBalancer) EntityID() int { return n.ID }

// NodeBalancerConfig is one port configuration of a NodeBalancer.
type NodeBalancerConfig struct {
	ID             int    `json:"id"`
	NodeBalancerID int    `json:"nodebalancer_id"`
	Port           int    `json:"port"`
	Protocol       string `json:"protocol"`
	Algorithm      string `json:"algorithm"`
	NodesStatus    struct {
		Up   int `json:"up"`
		Down int `json:"down"`
	} `json:"nodes_status"`
}

func (c NodeBalancerConfig) EntityID() int { return c.ID }

// Domain is a DNS zone.
type Domain struct {
	ID     int    `json:"id"`
	Domain string `json:"domain"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (d Domain) EntityID() int { return d.ID }

// Cluster is a managed Kubernetes cluster.
type Cluster struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Region     string `json:"region"`
	K8sVersion string `json:"k8s_version"`
	Status     string `json:"status"`
}

func (c Cluster) EntityID() int { return c.ID }

// Bucket is an object storage bucket. Buckets have no numeric id; they are
// keyed by cluster and label.
type Bucket struct {
	Label    string `json:"label"`
	Cluster  string `json:"cluster"`
	Hostname string `json:"hostname"`
	Objects  int    `json:"objects"`
	Size     int64  `json:"size"`
}

func (b Bucket) EntityID() string { return b.Cluster + "/" + b.Label }

// EventStatus is the lifecycle position of an event.
type EventStatus string

const (
	StatusScheduled    EventStatus = "scheduled"
	StatusStarted      EventStatus = "started"
	StatusFinished     EventStatus = "finished"
	StatusNotification EventStatus = "notification"
	StatusFailed       EventStatus = "failed"
)

// AllStatuses lists every event status.
var AllStatuses = []EventStatus{StatusScheduled, StatusStarted, StatusFinished, StatusNotification, StatusFailed}

// EventEntity identifies the resource an event is about.
type EventEntity struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Event is an account event describing progress of an asynchronous job.
type Event struct {
	ID              int          `json:"id"`
	Action          string       `json:"action"`
	Status          EventStatus  `json:"status"`
	Entity          *EventEntity `json:"entity"`
	SecondaryEntity *EventEntity `json:"secondary_entity"`
	PercentComplete *int         `json:"percent_complete"`
	Created         string       `json:"created"`
	Seen            bool         `json:"seen"`
	Read            bool         `json:"read"`
	Username        string       `json:"username"`
	Message         string       `json:"message"`
}

func (e Event) EntityID() int { return e.ID }

// ParsedCreated returns Created as a time, or the zero time.
func (e Event) ParsedCreated() time.Time {
	return parseTime(e.Created)
}

// Progress returns percent_complete and whether it was reported.
func (e Event) Progress() (int, bool) {
	if e.PercentComplete == nil {
		return 0, false
	}
	return *e.PercentComplete, true
}

// EntityKey returns "type:id" for the event's primary entity, or "".
func (e Event) EntityKey() string {
	if e.Entity == nil {
		return ""
	}
	return e.Entity.Type + ":" + strconv.Itoa(e.Entity.ID)
}

// FormatTime renders t in the API's timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(apiTimestampLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(apiTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
