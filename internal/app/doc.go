// Package app is the composition root of the cirrus console.
//
// # Overview
//
// NewEnv loads configuration and preferences, sets up logging and wires the
// API client, the entity cache, the fetch layer, the event feed and the
// event dispatcher. Run uses an Env to start the console; CLI commands use
// the same Env without the UI.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> NewEnv()            config, prefs, logger, client, cache
//	       ├─────> serveMetrics()      only when metrics_addr is set
//	       ├─────> Fetcher.LoadAll()   background; tabs show loading states
//	       ├─────> Poller.Prime()      newest page of events, not dispatched
//	       ├─────> Poller.Run()        background event loop
//	       └─────> ui.Run()            blocks until quit
//
// # Polling
//
// Each poll sends the feed's X-Filter (events at or after the newest one
// seen plus every in-progress event), merges the answer into the feed and
// dispatches only the events that are new or changed. Dispatching refreshes
// or removes the affected cache entries.
//
// The interval is poll_seconds (16s) normally and in_progress_poll_seconds
// (2s) while any event reports progress below 100%. After failures the
// interval doubles per consecutive failure up to 30 seconds. Two failures in
// a row mark the console offline; the next success clears it.
//
// # Errors
//
// Fatal errors (returned from NewEnv and Run):
//   - Invalid configuration or log file that cannot be opened
//   - API base URL that cannot be parsed
//
// Everything after startup is recoverable: load and poll failures are
// logged and kept in the cache's error slots for the UI to show.
package app
