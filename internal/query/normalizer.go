package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// humanDateLayout is the alternate date format the UI sends back from
// facet labels, e.g. "January 2, 2006".
const humanDateLayout = "January 2, 2006"

// Normalize parses caller-supplied "field:value" tokens into a multi-valued
// filter map. Tokens without a ":" separator are dropped; a field listed
// several times accumulates all its values (multi-select, any-of).
// Values on date-ish fields are reparsed from the human-readable layout to
// ISO; a value that fails to parse passes through unchanged.
func Normalize(tokens []string) map[string][]string {
	filters := make(map[string][]string)
	for _, tok := range tokens {
		field, value, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		filters[field] = append(filters[field], normalizeValue(field, value))
	}
	return filters
}

// NormalizeJSON accepts the JSON forms of a filter spec: either an array of
// "field:value" tokens or an object of field → value | [values].
func NormalizeJSON(raw []byte) (map[string][]string, error) {
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return map[string][]string{}, nil
	}

	if raw[0] == '[' {
		var tokens []string
		if err := json.Unmarshal(raw, &tokens); err != nil {
			return nil, fmt.Errorf("failed to decode filter list: %w", err)
		}
		return Normalize(tokens), nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode filter object: %w", err)
	}
	filters := make(map[string][]string, len(obj))
	for field, v := range obj {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				filters[field] = append(filters[field], normalizeValue(field, stringify(item)))
			}
		default:
			filters[field] = append(filters[field], normalizeValue(field, stringify(v)))
		}
	}
	return filters, nil
}

func normalizeValue(field, value string) string {
	if !isDateish(field) {
		return value
	}
	t, err := time.Parse(humanDateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

func isDateish(field string) bool {
	return strings.Contains(strings.ToLower(field), "date")
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bound is one normalized stats filter: a numeric range on a mapped path,
// or a boolean presence toggle.
type Bound struct {
	Display string
	Field   string
	Min     *float64
	Max     *float64
	Bool    *bool
}

// ParseStatBounds splits "_min"/"_max" suffixed stats keys into per-field
// ranges and bare keys into boolean toggles. Display names are mapped to
// queryable paths through displayToPath; unmapped names are ignored.
func ParseStatBounds(raw map[string]string, displayToPath map[string]string) []Bound {
	type agg struct {
		display string
		min     *float64
		max     *float64
		boolVal *bool
	}
	byField := make(map[string]*agg)
	order := make([]string, 0, len(raw))

	get := func(display string) *agg {
		path, ok := displayToPath[display]
		if !ok {
			return nil
		}
		a, ok := byField[path]
		if !ok {
			a = &agg{display: display}
			byField[path] = a
			order = append(order, path)
		}
		return a
	}

	for key, val := range raw {
		switch {
		case strings.HasSuffix(key, "_min"):
			a := get(strings.TrimSuffix(key, "_min"))
			if a == nil {
				continue
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				a.min = &f
			}
		case strings.HasSuffix(key, "_max"):
			a := get(strings.TrimSuffix(key, "_max"))
			if a == nil {
				continue
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				a.max = &f
			}
		default:
			a := get(key)
			if a == nil {
				continue
			}
			b := strings.EqualFold(val, "true")
			a.boolVal = &b
		}
	}

	bounds := make([]Bound, 0, len(byField))
	for _, path := range order {
		a := byField[path]
		if a.min == nil && a.max == nil && a.boolVal == nil {
			continue
		}
		bounds = append(bounds, Bound{
			Display: a.display,
			Field:   path,
			Min:     a.min,
			Max:     a.max,
			Bool:    a.boolVal,
		})
	}
	return bounds
}
