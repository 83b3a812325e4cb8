// Package rebrickable implements the set data provider against the
// Rebrickable API v3: set metadata, the paged parts inventory, and
// set-number validation with the "-1" suffix fallback.
//
// Pagination is handled internally; callers receive the complete raw parts
// list or a classified error. Not-found responses map to services.ErrNotFound
// and transport failures to services.ErrUnavailable so the pipeline can
// distinguish a bad set number from a provider outage.
package rebrickable
