// Package fetch runs API requests on behalf of the cache.
//
// Reads go through the entity stores' tickets: a collection read that is
// overtaken by a newer read of the same collection drops its result instead
// of overwriting fresher data. Collections are applied page by page so large
// accounts render progressively; the final list then replaces the cache so
// resources deleted elsewhere disappear.
//
// Every failure lands in an error slot (read, create, update or delete) with
// the API's reasons. A 404 on a single-item refresh means the resource is
// gone and removes it, along with any children cached under it.
//
// Fetcher implements events.Refresher, which is how the event dispatcher
// reaches the cache.
package fetch
