package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantUnmarshalAuthServiceShape(t *testing.T) {
	raw := `{
		"resource_type": "person",
		"access_type": "read",
		"view_limits": {"fields": ["Full Name", "Person Type"]},
		"filter_conditions": {"personType": ["priest", "deacon"]}
	}`

	var g Grant
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	assert.Equal(t, "person", g.ResourceType)
	assert.Equal(t, AccessRead, g.AccessType)
	assert.Equal(t, []string{"Full Name", "Person Type"}, g.ViewLimits.Fields)
	assert.Equal(t, []any{"priest", "deacon"}, g.FilterConditions["personType"])
}

func TestGrantUnmarshalGatewayShape(t *testing.T) {
	raw := `{"resource": "location", "filters": {"type": "church"}}`

	var g Grant
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	assert.Equal(t, "location", g.ResourceType)
	assert.Equal(t, "church", g.FilterConditions["type"])
}

func TestConditionMatches(t *testing.T) {
	get := func(field string) any {
		switch field {
		case "personType":
			return "priest"
		case "term":
			return int64(3)
		case "missing":
			return nil
		}
		return nil
	}

	assert.True(t, Eq("personType", "priest").Matches(get))
	assert.False(t, Eq("personType", "deacon").Matches(get))
	assert.True(t, In("personType", "deacon", "priest").Matches(get))
	assert.False(t, In("personType", "deacon", "lay").Matches(get))
	assert.False(t, Eq("missing", "anything").Matches(get))

	min, max := 1.0, 5.0
	assert.True(t, Range("term", &min, &max).Matches(get))
	assert.True(t, Range("term", &min, nil).Matches(get))
	assert.False(t, Range("term", nil, &min).Matches(get))
}

func TestConditionMatchesJSONNumbers(t *testing.T) {
	// Grant conditions decoded from JSON carry float64 values; they must
	// still compare equal to integral field values.
	get := func(string) any { return int64(7) }
	assert.True(t, Eq("term", float64(7)).Matches(get))
	assert.True(t, In("term", float64(6), float64(7)).Matches(get))
}

func TestRestrictionORAcrossAlternatives(t *testing.T) {
	r := Restriction{Alternatives: [][]Condition{
		{Eq("personType", "priest")},
		{Eq("personType", "deacon")},
	}}

	priest := func(string) any { return "priest" }
	deacon := func(string) any { return "deacon" }
	lay := func(string) any { return "lay" }

	assert.True(t, r.Matches(priest))
	assert.True(t, r.Matches(deacon))
	assert.False(t, r.Matches(lay))
}

func TestRestrictionANDWithinAlternative(t *testing.T) {
	r := Restriction{Alternatives: [][]Condition{
		{Eq("personType", "priest"), Eq("legalStatus", "active")},
	}}

	both := func(field string) any {
		if field == "personType" {
			return "priest"
		}
		return "active"
	}
	onlyType := func(field string) any {
		if field == "personType" {
			return "priest"
		}
		return "inactive"
	}

	assert.True(t, r.Matches(both))
	assert.False(t, r.Matches(onlyType))
}

func TestRestrictionEmptyAlternativeMatchesAll(t *testing.T) {
	r := Restriction{Alternatives: [][]Condition{{}}}
	assert.True(t, r.Matches(func(string) any { return nil }))
	assert.False(t, r.DeniesAll())
}

func TestDenyAll(t *testing.T) {
	r := DenyAll()
	assert.True(t, r.DeniesAll())
	assert.False(t, r.Matches(func(string) any { return "anything" }))
}
