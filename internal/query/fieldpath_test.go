package query

import (
	"testing"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := NewRegistry(domain.KindPerson, "person", "p", []FieldPath{
		{Name: "personType", Expr: "p.person_type"},
		{Name: "personType", Expr: "p.person_type"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistryRejectsConflictingAliases(t *testing.T) {
	_, err := NewRegistry(domain.KindPerson, "person", "p", []FieldPath{
		{Name: "a", Joins: []Join{{Table: "address", Alias: "x", On: "x.id = p.a"}}, Expr: "x.city"},
		{Name: "b", Joins: []Join{{Table: "county", Alias: "x", On: "x.id = p.b"}}, Expr: "x.name"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias")
}

func TestNewRegistryRejectsEmptyExpr(t *testing.T) {
	_, err := NewRegistry(domain.KindPerson, "person", "p", []FieldPath{{Name: "x"}})
	require.Error(t, err)
}

func TestLookupUnknownField(t *testing.T) {
	reg, err := NewPersonRegistry()
	require.NoError(t, err)

	_, err = reg.Lookup("noSuchField")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDefaultRegistriesValidate(t *testing.T) {
	preg, err := NewPersonRegistry()
	require.NoError(t, err)
	lreg, err := NewLocationRegistry()
	require.NoError(t, err)

	// Spot-check a few paths each registry must expose.
	for _, name := range []string{"personType", "assignment.vicariate", "status.name", "residence.city"} {
		assert.True(t, preg.Has(name), name)
	}
	for _, name := range []string{"type", "vicariate", "priestCount", "statusAnimarum.registeredHouseholds", "offertory.income"} {
		assert.True(t, lreg.Has(name), name)
	}
}
