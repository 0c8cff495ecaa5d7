package domain

import (
	"encoding/json"
	"fmt"
)

// Grant is one externally resolved permission rule scoping a caller group's
// access to a resource type. Grants arrive per request, already resolved for
// the caller; this service never manages group membership.
type Grant struct {
	ResourceType     string
	AccessType       AccessType
	ViewLimits       ViewLimits
	FilterConditions map[string]any
}

// ViewLimits optionally narrows which projected fields a grant exposes.
type ViewLimits struct {
	Fields []string `json:"fields"`
}

type grantJSON struct {
	ResourceType     string         `json:"resource_type"`
	Resource         string         `json:"resource"`
	AccessType       string         `json:"access_type"`
	ViewLimits       ViewLimits     `json:"view_limits"`
	FilterConditions map[string]any `json:"filter_conditions"`
	Filters          map[string]any `json:"filters"`
}

// UnmarshalJSON accepts both the auth service's field names
// (resource_type / filter_conditions) and the gateway header's short
// names (resource / filters).
func (g *Grant) UnmarshalJSON(data []byte) error {
	var raw grantJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode grant: %w", err)
	}
	g.ResourceType = raw.ResourceType
	if g.ResourceType == "" {
		g.ResourceType = raw.Resource
	}
	g.AccessType = AccessType(raw.AccessType)
	g.ViewLimits = raw.ViewLimits
	g.FilterConditions = raw.FilterConditions
	if g.FilterConditions == nil {
		g.FilterConditions = raw.Filters
	}
	return nil
}

// ConditionKind discriminates the condition variants.
type ConditionKind int

const (
	CondEq ConditionKind = iota
	CondIn
	CondRange
)

// Condition is one restriction clause in the grant condition language:
// equality, membership, or an inclusive numeric range. Conditions are
// interpreted uniformly whether they are matched in memory or rendered
// to SQL.
type Condition struct {
	Field  string
	Kind   ConditionKind
	Value  any
	Values []any
	Min    *float64
	Max    *float64
}

// Eq builds an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Kind: CondEq, Value: value}
}

// In builds a membership condition.
func In(field string, values ...any) Condition {
	return Condition{Field: field, Kind: CondIn, Values: values}
}

// Range builds an inclusive numeric range condition. Either bound may be
// nil for a one-sided comparison.
func Range(field string, min, max *float64) Condition {
	return Condition{Field: field, Kind: CondRange, Min: min, Max: max}
}

// Matches evaluates the condition against a field accessor. Values compare
// by their canonical string form except ranges, which coerce to float64.
func (c Condition) Matches(get func(field string) any) bool {
	got := get(c.Field)
	if got == nil {
		return false
	}
	switch c.Kind {
	case CondEq:
		return canonical(got) == canonical(c.Value)
	case CondIn:
		want := canonical(got)
		for _, v := range c.Values {
			if canonical(v) == want {
				return true
			}
		}
		return false
	case CondRange:
		n, ok := toFloat(got)
		if !ok {
			return false
		}
		if c.Min != nil && n < *c.Min {
			return false
		}
		if c.Max != nil && n > *c.Max {
			return false
		}
		return true
	}
	return false
}

// Restriction is the combined result of resolving a caller's grants against
// a base kind: a disjunction of per-grant conjunctions. Zero alternatives
// means deny-all; an alternative with zero conditions matches everything.
type Restriction struct {
	Alternatives [][]Condition
}

// DenyAll is the restriction that matches nothing.
func DenyAll() Restriction {
	return Restriction{}
}

// DeniesAll reports whether no grant was relevant to the request.
func (r Restriction) DeniesAll() bool {
	return len(r.Alternatives) == 0
}

// Matches evaluates the restriction against a field accessor: OR across
// alternatives, AND within each.
func (r Restriction) Matches(get func(field string) any) bool {
	for _, alt := range r.Alternatives {
		ok := true
		for _, c := range alt {
			if !c.Matches(get) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func canonical(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so they compare equal to their string form.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(t, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
