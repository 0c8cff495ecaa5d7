package query

import (
	"errors"
	"fmt"

	"github.com/cryptadb/crypta/internal/domain"
)

// ErrUnknownField reports a filter or facet referencing a field path the
// registry does not expose. Surfaced to callers as a client error rather
// than silently dropped, since dropping it could mask an intended
// restriction.
var ErrUnknownField = errors.New("unknown field path")

// ValueKind tells the composer how to bind filter values for a path.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindDate
	KindNumber
)

// Join is one LEFT JOIN step a field path needs to reach its column.
type Join struct {
	Table string
	Alias string
	On    string
}

// FieldPath is a typed, pre-validated query path: the dotted external name
// the API exposes, the joins needed to reach it and the SQL expression that
// yields its value. Paths are enumerated at startup; there is no runtime
// string-to-column translation.
type FieldPath struct {
	Name  string
	Joins []Join
	Expr  string
	Kind  ValueKind
}

// Registry holds every queryable path for one base entity kind.
type Registry struct {
	base   domain.EntityKind
	table  string
	alias  string
	byName map[string]FieldPath
}

// NewRegistry validates the path set against itself: duplicate external
// names and conflicting join aliases are construction errors, so a bad
// path table fails at startup instead of at query time.
func NewRegistry(base domain.EntityKind, table, alias string, paths []FieldPath) (*Registry, error) {
	byName := make(map[string]FieldPath, len(paths))
	joinTables := make(map[string]string)
	for _, p := range paths {
		if p.Name == "" || p.Expr == "" {
			return nil, fmt.Errorf("field path for %s has empty name or expression", base)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate field path %q for %s", p.Name, base)
		}
		for _, j := range p.Joins {
			if prev, ok := joinTables[j.Alias]; ok && prev != j.Table {
				return nil, fmt.Errorf("join alias %q bound to both %q and %q", j.Alias, prev, j.Table)
			}
			joinTables[j.Alias] = j.Table
		}
		byName[p.Name] = p
	}
	return &Registry{base: base, table: table, alias: alias, byName: byName}, nil
}

// Lookup resolves an external field name to its path.
func (r *Registry) Lookup(name string) (FieldPath, error) {
	p, ok := r.byName[name]
	if !ok {
		return FieldPath{}, fmt.Errorf("%w: %q on %s", ErrUnknownField, name, r.base)
	}
	return p, nil
}

// Has reports whether the registry exposes the given external name.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Base returns the entity kind this registry serves.
func (r *Registry) Base() domain.EntityKind { return r.base }

// Table returns the base table name.
func (r *Registry) Table() string { return r.table }

// Alias returns the base table alias used in generated SQL.
func (r *Registry) Alias() string { return r.alias }
