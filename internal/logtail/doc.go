// Package logtail reads the tail of the console's own log file.
//
// # Overview
//
// The console writes zerolog JSON lines to its log file. The Logs tab and
// the `cirrus logs` command show the last few hundred of them without loading
// the whole file.
//
// # Reading
//
// Read returns raw lines. ReadEntries parses each line and keeps only those
// at or above a minimum level:
//
//	entries, err := logtail.ReadEntries(path, 400, zerolog.InfoLevel)
//
// Both scan the file once and keep a ring buffer of maxLines values, so
// memory is bounded by maxLines rather than the file size. A non-positive
// maxLines returns everything. A missing file is not an error.
//
// # Formatting
//
// Format renders an Entry on one line:
//
//	14:03:22 WRN refresh failed action=linode_boot error=boom
//
// Lines that are not JSON (for example output captured before the logger
// was configured) pass through unchanged.
package logtail
