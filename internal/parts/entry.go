package parts

// Entry is one (part number, color) pairing required for a set. It is the
// wire shape of the parts array inside a set's .set.json document.
type Entry struct {
	PartNum       string `json:"part_num"`
	ColorID       string `json:"color_id"`
	ColorName     string `json:"color_name"`
	ColorRGB      string `json:"color_rgb"`
	IsTransparent bool   `json:"is_transparent"`
	Quantity      int    `json:"quantity"`
	IsSpare       bool   `json:"is_spare"`
}

// Deduplicate reduces an ordered parts list to the first entry seen per part
// number, preserving first-seen order. Color variants of the same part number
// collapse to one entry: they share a single mesh asset.
func Deduplicate(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	unique := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.PartNum]; ok {
			continue
		}
		seen[entry.PartNum] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}

// CountUnique returns the number of distinct part numbers in entries.
func CountUnique(entries []Entry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		seen[entry.PartNum] = struct{}{}
	}
	return len(seen)
}
