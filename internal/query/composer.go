package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cryptadb/crypta/internal/domain"
)

// EntityQuery is a composed, not-yet-executed query over one base entity
// kind: permission restriction first, then user filters, then stats bounds.
// It renders SQL on demand; repositories decide what to select.
type EntityQuery struct {
	reg         *Registry
	restriction domain.Restriction
	filters     map[string][]string
	bounds      []Bound
}

// Compose validates every referenced field path eagerly and builds the
// query. An unknown path wraps ErrUnknownField so the HTTP layer can map
// it to a 400.
func Compose(reg *Registry, restriction domain.Restriction, filters map[string][]string, bounds []Bound) (*EntityQuery, error) {
	for _, alt := range restriction.Alternatives {
		for _, c := range alt {
			if _, err := reg.Lookup(c.Field); err != nil {
				return nil, fmt.Errorf("permission condition: %w", err)
			}
		}
	}
	for field := range filters {
		if _, err := reg.Lookup(field); err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
	}
	for _, b := range bounds {
		if _, err := reg.Lookup(b.Field); err != nil {
			return nil, fmt.Errorf("stats bound: %w", err)
		}
	}
	return &EntityQuery{reg: reg, restriction: restriction, filters: filters, bounds: bounds}, nil
}

// DeniesAll reports whether no grant was relevant: the query must
// short-circuit to an empty set without touching user filters.
func (q *EntityQuery) DeniesAll() bool {
	return q.restriction.DeniesAll()
}

// Base returns the entity kind the query runs over.
func (q *EntityQuery) Base() domain.EntityKind {
	return q.reg.Base()
}

// IDQuery renders the deduplicated base-row id query. Joins across
// multi-valued relations can multiply rows; DISTINCT collapses them back
// to one row per entity.
func (q *EntityQuery) IDQuery() (string, []any) {
	b := newSQLBuilder(q.reg)
	where := q.whereClause(b)
	sql := fmt.Sprintf("SELECT DISTINCT %s.id FROM %s %s%s WHERE %s ORDER BY %s.id",
		q.reg.Alias(), q.reg.Table(), q.reg.Alias(), b.joinClause(), where, q.reg.Alias())
	return sql, b.args
}

// FacetQuery renders the distinct-value/count query for one facet path
// over the already-filtered set. Null values are excluded at the source.
func (q *EntityQuery) FacetQuery(name string) (string, []any, error) {
	p, err := q.reg.Lookup(name)
	if err != nil {
		return "", nil, err
	}
	b := newSQLBuilder(q.reg)
	where := q.whereClause(b)
	b.addJoins(p.Joins)
	sql := fmt.Sprintf("SELECT %s AS value, COUNT(DISTINCT %s.id) AS count FROM %s %s%s WHERE %s AND %s IS NOT NULL GROUP BY %s",
		p.Expr, q.reg.Alias(), q.reg.Table(), q.reg.Alias(), b.joinClause(), where, p.Expr, p.Expr)
	return sql, b.args, nil
}

// SearchQuery renders a permission-scoped substring search. selectList is
// the projection the caller wants; searchExprs are the columns matched
// case-insensitively against term.
func (q *EntityQuery) SearchQuery(selectList string, searchExprs []string, term string) (string, []any) {
	b := newSQLBuilder(q.reg)
	where := q.whereClause(b)
	likes := make([]string, 0, len(searchExprs))
	pattern := "%" + term + "%"
	for _, expr := range searchExprs {
		likes = append(likes, fmt.Sprintf("%s ILIKE %s", expr, b.arg(pattern)))
	}
	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s %s%s WHERE %s AND (%s) ORDER BY %s.id",
		selectList, q.reg.Table(), q.reg.Alias(), b.joinClause(), where, strings.Join(likes, " OR "), q.reg.Alias())
	return sql, b.args
}

func (q *EntityQuery) whereClause(b *sqlBuilder) string {
	conds := make([]string, 0, 1+len(q.filters)+len(q.bounds))

	if q.restriction.DeniesAll() {
		return "FALSE"
	}
	if restr := q.restrictionSQL(b); restr != "" {
		conds = append(conds, restr)
	}

	fields := make([]string, 0, len(q.filters))
	for f := range q.filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, field := range fields {
		p, _ := q.reg.Lookup(field)
		b.addJoins(p.Joins)
		conds = append(conds, b.inList(p, q.filters[field]))
	}

	for _, bound := range q.bounds {
		p, _ := q.reg.Lookup(bound.Field)
		b.addJoins(p.Joins)
		conds = append(conds, b.boundSQL(p, bound))
	}

	if len(conds) == 0 {
		return "TRUE"
	}
	return strings.Join(conds, " AND ")
}

func (q *EntityQuery) restrictionSQL(b *sqlBuilder) string {
	alts := make([]string, 0, len(q.restriction.Alternatives))
	matchAll := false
	for _, alt := range q.restriction.Alternatives {
		if len(alt) == 0 {
			// A grant with no conditions allows the whole base set.
			matchAll = true
			continue
		}
		parts := make([]string, 0, len(alt))
		for _, c := range alt {
			p, _ := q.reg.Lookup(c.Field)
			b.addJoins(p.Joins)
			parts = append(parts, b.conditionSQL(p, c))
		}
		alts = append(alts, "("+strings.Join(parts, " AND ")+")")
	}
	if matchAll || len(alts) == 0 {
		return ""
	}
	return "(" + strings.Join(alts, " OR ") + ")"
}

type sqlBuilder struct {
	reg       *Registry
	joins     []Join
	joinSeen  map[string]bool
	args      []any
}

func newSQLBuilder(reg *Registry) *sqlBuilder {
	return &sqlBuilder{reg: reg, joinSeen: make(map[string]bool)}
}

func (b *sqlBuilder) addJoins(joins []Join) {
	for _, j := range joins {
		if b.joinSeen[j.Alias] {
			continue
		}
		b.joinSeen[j.Alias] = true
		b.joins = append(b.joins, j)
	}
}

func (b *sqlBuilder) joinClause() string {
	var sb strings.Builder
	for _, j := range b.joins {
		sb.WriteString(fmt.Sprintf(" LEFT JOIN %s %s ON %s", j.Table, j.Alias, j.On))
	}
	return sb.String()
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// placeholder binds a value coerced to the path's kind, with a cast for
// date columns so text parameters compare as dates.
func (b *sqlBuilder) placeholder(p FieldPath, v any) string {
	ph := b.arg(coerce(p.Kind, v))
	if p.Kind == KindDate {
		ph += "::date"
	}
	return ph
}

func (b *sqlBuilder) inList(p FieldPath, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("%s = %s", p.Expr, b.placeholder(p, values[0]))
	}
	phs := make([]string, 0, len(values))
	for _, v := range values {
		phs = append(phs, b.placeholder(p, v))
	}
	return fmt.Sprintf("%s IN (%s)", p.Expr, strings.Join(phs, ", "))
}

func (b *sqlBuilder) conditionSQL(p FieldPath, c domain.Condition) string {
	switch c.Kind {
	case domain.CondEq:
		return fmt.Sprintf("%s = %s", p.Expr, b.placeholder(p, c.Value))
	case domain.CondIn:
		if len(c.Values) == 0 {
			return "FALSE"
		}
		phs := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			phs = append(phs, b.placeholder(p, v))
		}
		return fmt.Sprintf("%s IN (%s)", p.Expr, strings.Join(phs, ", "))
	case domain.CondRange:
		parts := make([]string, 0, 2)
		if c.Min != nil {
			parts = append(parts, fmt.Sprintf("%s >= %s", p.Expr, b.arg(*c.Min)))
		}
		if c.Max != nil {
			parts = append(parts, fmt.Sprintf("%s <= %s", p.Expr, b.arg(*c.Max)))
		}
		if len(parts) == 0 {
			return "TRUE"
		}
		return "(" + strings.Join(parts, " AND ") + ")"
	}
	return "FALSE"
}

func (b *sqlBuilder) boundSQL(p FieldPath, bound Bound) string {
	if bound.Bool != nil {
		return fmt.Sprintf("%s = %s", p.Expr, b.arg(*bound.Bool))
	}
	parts := make([]string, 0, 2)
	if bound.Min != nil {
		parts = append(parts, fmt.Sprintf("%s >= %s", p.Expr, b.arg(*bound.Min)))
	}
	if bound.Max != nil {
		parts = append(parts, fmt.Sprintf("%s <= %s", p.Expr, b.arg(*bound.Max)))
	}
	if len(parts) == 0 {
		return "TRUE"
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// coerce converts wire strings to the parameter type a path's column
// expects. Unparseable values pass through unchanged and simply match
// nothing downstream.
func coerce(kind ValueKind, v any) any {
	s, isString := v.(string)
	switch kind {
	case KindBool:
		if isString {
			return strings.EqualFold(s, "true")
		}
	case KindNumber:
		if isString {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return v
}
