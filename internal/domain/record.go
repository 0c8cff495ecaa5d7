package domain

// ProjectedRecord is a flat display row: human-readable field name → value.
// Computed fresh per request, never persisted.
type ProjectedRecord map[string]any

// Column describes one grid column for the UI, including the queryable
// path behind it and the category used to group fields.
type Column struct {
	Title    string `json:"title"`
	Field    string `json:"field"`
	SQLField string `json:"sqlField"`
	Category string `json:"category"`
}

// FacetOption is one distinct value bucket within a facet.
type FacetOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// FacetEntry is one field's distinct-value breakdown over the filtered set.
type FacetEntry struct {
	Field   string        `json:"field"`
	Display string        `json:"display"`
	Options []FacetOption `json:"options"`
}

// StatType tags a stats column as numeric or boolean.
type StatType string

const (
	StatNumber  StatType = "number"
	StatBoolean StatType = "boolean"
)

// StatInfo powers one range slider or presence toggle in the UI.
// Min/Max are only set for numeric stats.
type StatInfo struct {
	Field   string   `json:"field"`
	Display string   `json:"display"`
	Type    StatType `json:"type"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// SearchHit is a slim name-search result row.
type SearchHit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
