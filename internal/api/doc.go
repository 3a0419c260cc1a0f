// Package api provides an HTTP client for the cloud provider's v4 REST API.
//
// # Overview
//
// The client covers the endpoints the console mirrors into its cache:
// instances (with their disks and config profiles), volumes, node balancers
// (with their port configs), domains, Kubernetes clusters, object storage
// buckets and the account event stream.
//
// # Pagination
//
// Collections are paginated with page and page_size query parameters and
// answer with
//
//	{"data": [...], "page": 1, "pages": 3, "results": 250}
//
// which decodes into Page[T]. ListAll walks every page and reports each one
// as it arrives so callers can render partial results.
//
// # Requests
//
// All requests:
//   - Take a context for cancellation
//   - Wait on a client-side token bucket (golang.org/x/time/rate)
//   - Send Accept: application/json and User-Agent: cirrus/0.1
//   - Send a fresh X-Request-ID (uuid v4)
//   - Send Authorization: Bearer <token> when a token is configured
//   - Send an X-Filter JSON document when the caller supplies a Filter
//
// The timeout is the http.Client's (30 seconds unless configured). There are
// no retries at this layer.
//
// # Errors
//
// Responses with status >= 400 become *Error, carrying the status code and
// the API's reason list:
//
//	{"errors": [{"field": "label", "reason": "Label must be unique."}]}
//
// ReasonsOf turns any error into a reason list suitable for display and
// IsNotFound detects 404s. Transport and decoding failures are wrapped with
// fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "decode response: unexpected EOF"
//
// # Identifiers
//
// Every resource type implements EntityID so it can be stored in the entity
// cache directly. Buckets have no numeric id and use "cluster/label".
package api
