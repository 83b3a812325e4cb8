package rebrickable

// ColorRef is the inline color object the API embeds in each inventory entry.
type ColorRef struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	RGB     string `json:"rgb"`
	IsTrans bool   `json:"is_trans"`
}

// PartRef identifies the part within an inventory entry.
type PartRef struct {
	PartNum string `json:"part_num"`
	Name    string `json:"name"`
}

// SetPart is one raw inventory entry: a part in a color with a quantity.
type SetPart struct {
	Part     PartRef  `json:"part"`
	Color    ColorRef `json:"color"`
	Quantity int      `json:"quantity"`
	IsSpare  bool     `json:"is_spare"`
}

// SetInfo is the set-level metadata returned by the sets endpoint.
type SetInfo struct {
	SetNum   string `json:"set_num"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	NumParts int    `json:"num_parts"`
	ThemeID  int    `json:"theme_id"`
}

// SetData bundles the metadata and full raw parts list for one set.
type SetData struct {
	SetNumber string
	Info      SetInfo
	Parts     []SetPart
}

type partsPage struct {
	Count   int       `json:"count"`
	Next    *string   `json:"next"`
	Results []SetPart `json:"results"`
}
