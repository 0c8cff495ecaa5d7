package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cryptadb/crypta/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacetOptionLabelMirrorsValue(t *testing.T) {
	opt := facetOption("church", 3)
	assert.Equal(t, "church", opt.Value)
	assert.Equal(t, "church", opt.Label)
	assert.Equal(t, int64(3), opt.Count)

	entry := domain.FacetEntry{Field: "type", Display: "Location Type", Options: []domain.FacetOption{opt}}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"label":"church"`)
}

func TestFacetValueRendering(t *testing.T) {
	date := time.Date(2023, time.June, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "June 4, 2023", facetValue(date))
	assert.Equal(t, "true", facetValue(true))
	assert.Equal(t, "false", facetValue(false))
	assert.Equal(t, "42", facetValue(int64(42)))
}
