// Package services defines shared utilities consumed by the pipeline and
// external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures from the set
//     data provider and the conversion tool classify consistently.
//   - Context helpers that stamp set numbers and job correlation identifiers
//     for logging.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the pipeline.
package services
