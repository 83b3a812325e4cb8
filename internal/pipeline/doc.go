// Package pipeline coordinates asynchronous set processing.
//
// The manager gates submissions against the durable metadata store and the
// in-memory job registry, then hands accepted sets to a bounded worker pool.
// Each worker fetches catalog data, persists metadata, and runs the
// conversion loop, reporting progress milestones back to the registry.
package pipeline
