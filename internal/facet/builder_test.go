package facet

import (
	"context"
	"testing"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCountSource struct {
	buckets map[string][]domain.FacetOption
	calls   []string
}

func (f *fakeCountSource) CountValues(_ context.Context, _ *query.EntityQuery, path string) ([]domain.FacetOption, error) {
	f.calls = append(f.calls, path)
	return f.buckets[path], nil
}

func composeLocationQuery(t *testing.T, restr domain.Restriction) *query.EntityQuery {
	t.Helper()
	reg, err := query.NewLocationRegistry()
	require.NoError(t, err)
	q, err := query.Compose(reg, restr, nil, nil)
	require.NoError(t, err)
	return q
}

func matchAll() domain.Restriction {
	return domain.Restriction{Alternatives: [][]domain.Condition{{}}}
}

func TestBuildKeepsConfiguredOrder(t *testing.T) {
	source := &fakeCountSource{buckets: map[string][]domain.FacetOption{
		"type":      {{Value: "church", Label: "church", Count: 10}},
		"vicariate": {{Value: "North", Label: "North", Count: 4}},
	}}
	b := NewBuilder(source, map[string]string{"type": "Location Type", "vicariate": "Vicariate"}, zap.NewNop())

	tree, err := b.Build(context.Background(), composeLocationQuery(t, matchAll()), []string{"type", "vicariate"})
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "type", tree[0].Field)
	assert.Equal(t, "Location Type", tree[0].Display)
	assert.Equal(t, "vicariate", tree[1].Field)
}

func TestBuildOmitsEmptyFacets(t *testing.T) {
	source := &fakeCountSource{buckets: map[string][]domain.FacetOption{
		"type": {{Value: "church", Label: "church", Count: 3}},
		// "county" has no non-null buckets.
	}}
	b := NewBuilder(source, nil, zap.NewNop())

	tree, err := b.Build(context.Background(), composeLocationQuery(t, matchAll()), []string{"type", "county"})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "type", tree[0].Field)
}

func TestBuildDenyAllSkipsSource(t *testing.T) {
	source := &fakeCountSource{}
	b := NewBuilder(source, nil, zap.NewNop())

	tree, err := b.Build(context.Background(), composeLocationQuery(t, domain.DenyAll()), []string{"type"})
	require.NoError(t, err)
	assert.Empty(t, tree)
	assert.Empty(t, source.calls)
}

func TestDisplayLabelFallback(t *testing.T) {
	b := NewBuilder(&fakeCountSource{}, map[string]string{"type": "Location Type"}, zap.NewNop())

	assert.Equal(t, "Location Type", b.displayLabel("type"))
	assert.Equal(t, "Church CityServed", b.displayLabel("church.cityServed"))
	assert.Equal(t, "Social Outreach", b.displayLabel("social_outreach"))
}
