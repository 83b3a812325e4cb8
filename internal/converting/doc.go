// Package converting runs the per-part conversion loop for a set.
//
// The orchestrator deduplicates the parts list (color variants share one
// mesh), walks unique parts in first-seen order, applies the skip-existing
// policy against artifact presence, and classifies backend failures into
// converted/skipped/failed/missing counts. Partial failure is expected batch
// behaviour: one bad part never halts the rest.
package converting
