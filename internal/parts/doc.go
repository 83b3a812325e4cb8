// Package parts holds the part list model shared across the pipeline:
// the PartEntry wire shape, first-seen deduplication, and conversion
// statistics with their counting invariant.
package parts
