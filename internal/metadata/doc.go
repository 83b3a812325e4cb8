// Package metadata persists the durable per-set record (.set.json) and
// resolves the paths of generated STL artifacts.
//
// Create normalizes a raw provider inventory through the color lookup table,
// falling back to provider-inline colors for unknown ids, and writes the
// document atomically (temp file + rename). The document's presence on disk
// is the authoritative has-this-set-been-processed signal; artifact presence
// under stls/ is the per-part skip-existing signal. total_parts counts raw
// inventory entries rather than summing quantities, matching the metadata
// format consumers already rely on.
package metadata
