package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMultiValueRoundTrip(t *testing.T) {
	got := Normalize([]string{"type:church", "type:school"})
	assert.Equal(t, map[string][]string{"type": {"church", "school"}}, got)
}

func TestNormalizeDropsMalformedTokens(t *testing.T) {
	got := Normalize([]string{"type:church", "garbage", "", "vicariate:North"})
	assert.Equal(t, map[string][]string{
		"type":      {"church"},
		"vicariate": {"North"},
	}, got)
}

func TestNormalizeSplitsOnFirstColon(t *testing.T) {
	got := Normalize([]string{"assignment.location:St. Mary: Mother of God"})
	assert.Equal(t, []string{"St. Mary: Mother of God"}, got["assignment.location"])
}

func TestNormalizeReparsesDates(t *testing.T) {
	got := Normalize([]string{"dateBaptism:January 5, 1990"})
	assert.Equal(t, []string{"1990-01-05"}, got["dateBaptism"])

	// Unparseable date value passes through unchanged.
	got = Normalize([]string{"dateBaptism:not-a-date"})
	assert.Equal(t, []string{"not-a-date"}, got["dateBaptism"])

	// Non-date fields are never reparsed.
	got = Normalize([]string{"type:January 5, 1990"})
	assert.Equal(t, []string{"January 5, 1990"}, got["type"])
}

func TestNormalizeJSONArray(t *testing.T) {
	got, err := NormalizeJSON([]byte(`["type:church","type:school"]`))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"type": {"church", "school"}}, got)
}

func TestNormalizeJSONObject(t *testing.T) {
	got, err := NormalizeJSON([]byte(`{"type": ["church","school"], "vicariate": "North", "term": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"church", "school"}, got["type"])
	assert.Equal(t, []string{"North"}, got["vicariate"])
	assert.Equal(t, []string{"3"}, got["term"])
}

func TestNormalizeJSONEmpty(t *testing.T) {
	got, err := NormalizeJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeJSONMalformed(t *testing.T) {
	_, err := NormalizeJSON([]byte(`{broken`))
	require.Error(t, err)
}

func TestParseStatBounds(t *testing.T) {
	displayToPath := map[string]string{
		"Registered Households": "statusAnimarum.registeredHouseholds",
		"Priest Count":          "priestCount",
		"Cemetery on Site?":     "statusAnimarum.cemetery",
	}

	bounds := ParseStatBounds(map[string]string{
		"Registered Households_min": "100",
		"Registered Households_max": "500",
		"Priest Count_min":          "2",
		"Cemetery on Site?":         "true",
		"Unknown Display_min":       "1",
	}, displayToPath)

	byField := make(map[string]Bound)
	for _, b := range bounds {
		byField[b.Field] = b
	}
	require.Len(t, byField, 3)

	rh := byField["statusAnimarum.registeredHouseholds"]
	require.NotNil(t, rh.Min)
	require.NotNil(t, rh.Max)
	assert.Equal(t, 100.0, *rh.Min)
	assert.Equal(t, 500.0, *rh.Max)
	assert.Equal(t, "Registered Households", rh.Display)

	pc := byField["priestCount"]
	require.NotNil(t, pc.Min)
	assert.Nil(t, pc.Max)
	assert.Equal(t, 2.0, *pc.Min)

	cem := byField["statusAnimarum.cemetery"]
	require.NotNil(t, cem.Bool)
	assert.True(t, *cem.Bool)
}

func TestParseStatBoundsIgnoresBadNumbers(t *testing.T) {
	bounds := ParseStatBounds(map[string]string{
		"Priest Count_min": "abc",
	}, map[string]string{"Priest Count": "priestCount"})
	assert.Empty(t, bounds)
}
