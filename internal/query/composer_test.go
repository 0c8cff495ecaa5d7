package query

import (
	"strings"
	"testing"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locationRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewLocationRegistry()
	require.NoError(t, err)
	return reg
}

func personRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewPersonRegistry()
	require.NoError(t, err)
	return reg
}

func matchAll() domain.Restriction {
	return domain.Restriction{Alternatives: [][]domain.Condition{{}}}
}

func TestComposeRejectsUnknownFilterField(t *testing.T) {
	_, err := Compose(locationRegistry(t), matchAll(), map[string][]string{"bogus": {"x"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestComposeRejectsUnknownConditionField(t *testing.T) {
	restr := domain.Restriction{Alternatives: [][]domain.Condition{{domain.Eq("bogus", "x")}}}
	_, err := Compose(personRegistry(t), restr, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDenyAllShortCircuits(t *testing.T) {
	q, err := Compose(locationRegistry(t), domain.DenyAll(), map[string][]string{"type": {"church"}}, nil)
	require.NoError(t, err)
	assert.True(t, q.DeniesAll())

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "WHERE FALSE")
	assert.Empty(t, args)
}

func TestIDQueryDistinctAndFilters(t *testing.T) {
	q, err := Compose(locationRegistry(t), matchAll(),
		map[string][]string{"type": {"church", "school"}}, nil)
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "SELECT DISTINCT l.id FROM location l")
	assert.Contains(t, sql, "l.type IN ($1, $2)")
	assert.Equal(t, []any{"church", "school"}, args)
}

func TestIDQueryAddsJoinsOnce(t *testing.T) {
	q, err := Compose(locationRegistry(t), matchAll(), map[string][]string{
		"statusAnimarum.registeredHouseholds": {"100"},
		"statusAnimarum.cemetery":             {"true"},
	}, nil)
	require.NoError(t, err)

	sql, _ := q.IDQuery()
	assert.Equal(t, 1, strings.Count(sql, "LEFT JOIN status_animarum sa"))
}

func TestIDQueryRestrictionOR(t *testing.T) {
	restr := domain.Restriction{Alternatives: [][]domain.Condition{
		{domain.Eq("personType", "priest")},
		{domain.Eq("personType", "deacon")},
	}}
	q, err := Compose(personRegistry(t), restr, nil, nil)
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "((p.person_type = $1) OR (p.person_type = $2))")
	assert.Equal(t, []any{"priest", "deacon"}, args)
}

func TestIDQueryMatchAllGrantDropsRestriction(t *testing.T) {
	// One unconditional grant means the whole base set is allowed even if
	// another grant carries conditions.
	restr := domain.Restriction{Alternatives: [][]domain.Condition{
		{domain.Eq("personType", "priest")},
		{},
	}}
	q, err := Compose(personRegistry(t), restr, nil, nil)
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "WHERE TRUE")
	assert.Empty(t, args)
}

func TestIDQueryBounds(t *testing.T) {
	min, max := 100.0, 500.0
	q, err := Compose(locationRegistry(t), matchAll(), nil, []Bound{
		{Field: "statusAnimarum.registeredHouseholds", Min: &min, Max: &max},
	})
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "sa.registered_households >= $1")
	assert.Contains(t, sql, "sa.registered_households <= $2")
	assert.Equal(t, []any{100.0, 500.0}, args)
}

func TestIDQueryOneSidedBound(t *testing.T) {
	min := 2.0
	q, err := Compose(locationRegistry(t), matchAll(), nil, []Bound{
		{Field: "priestCount", Min: &min},
	})
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, ">= $1")
	assert.NotContains(t, sql, "<=")
	assert.Equal(t, []any{2.0}, args)
}

func TestIDQueryBooleanBound(t *testing.T) {
	v := true
	q, err := Compose(locationRegistry(t), matchAll(), nil, []Bound{
		{Field: "statusAnimarum.cemetery", Bool: &v},
	})
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "sa.has_cemetery = $1")
	assert.Equal(t, []any{true}, args)
}

func TestIDQueryCoercesKinds(t *testing.T) {
	q, err := Compose(personRegistry(t), matchAll(), map[string][]string{
		"safeEnvironmentTraining": {"true"},
		"dateBaptism":             {"1990-01-05"},
	}, nil)
	require.NoError(t, err)

	sql, args := q.IDQuery()
	assert.Contains(t, sql, "p.date_baptism = $1::date")
	assert.Contains(t, sql, "p.is_safe_environment_training = $2")
	assert.Equal(t, []any{"1990-01-05", true}, args)
}

func TestFacetQuery(t *testing.T) {
	q, err := Compose(locationRegistry(t), matchAll(),
		map[string][]string{"type": {"church"}}, nil)
	require.NoError(t, err)

	sql, args, err := q.FacetQuery("vicariate")
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT v.name AS value, COUNT(DISTINCT l.id) AS count")
	assert.Contains(t, sql, "LEFT JOIN vicariate v")
	assert.Contains(t, sql, "v.name IS NOT NULL")
	assert.Contains(t, sql, "GROUP BY v.name")
	assert.Equal(t, []any{"church"}, args)
}

func TestFacetQueryUnknownField(t *testing.T) {
	q, err := Compose(locationRegistry(t), matchAll(), nil, nil)
	require.NoError(t, err)

	_, _, err = q.FacetQuery("bogus")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSearchQuery(t *testing.T) {
	q, err := Compose(personRegistry(t), matchAll(), nil, nil)
	require.NoError(t, err)

	sql, args := q.SearchQuery("p.id, p.name_first, p.name_last",
		[]string{"p.name_first", "p.name_last"}, "smith")
	assert.Contains(t, sql, "p.name_first ILIKE $1")
	assert.Contains(t, sql, "p.name_last ILIKE $2")
	assert.Equal(t, []any{"%smith%", "%smith%"}, args)
}

func TestPriestCountIsCorrelatedSubquery(t *testing.T) {
	min := 1.0
	q, err := Compose(locationRegistry(t), matchAll(), nil, []Bound{
		{Field: "priestCount", Min: &min},
	})
	require.NoError(t, err)

	sql, _ := q.IDQuery()
	assert.Contains(t, sql, "SELECT COUNT(DISTINCT pa.id) FROM assignment pa")
	assert.NotContains(t, sql, "LEFT JOIN assignment pa")
}
