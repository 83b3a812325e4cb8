package parts

import "fmt"

// FailedPart records one part that could not be converted and why.
type FailedPart struct {
	PartNum string `json:"part_num"`
	Reason  string `json:"reason"`
}

// ConversionStats summarizes one conversion run over a set's unique parts.
// Total always equals Converted+Skipped+Failed+Missing, and FailedParts holds
// one record per failed or missing part.
type ConversionStats struct {
	Total       int          `json:"total"`
	Converted   int          `json:"converted"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	Missing     int          `json:"missing"`
	FailedParts []FailedPart `json:"failed_parts"`
}

// Consistent reports whether the counting invariants hold.
func (s ConversionStats) Consistent() bool {
	return s.Total == s.Converted+s.Skipped+s.Failed+s.Missing &&
		len(s.FailedParts) == s.Failed+s.Missing
}

// Summary renders a one-line human-readable outcome.
func (s ConversionStats) Summary() string {
	return fmt.Sprintf("Converted %d of %d parts (%d skipped, %d failed, %d missing)",
		s.Converted, s.Total, s.Skipped, s.Failed, s.Missing)
}
