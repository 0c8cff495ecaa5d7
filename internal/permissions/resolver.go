package permissions

import (
	"sort"

	"github.com/cryptadb/crypta/internal/domain"

	"go.uber.org/zap"
)

// Relations maps sub-resource names to the base kind they belong to. A
// grant on a sub-resource (e.g. person_email) restricts queries over its
// base the same way a direct grant would.
type Relations map[string]domain.EntityKind

// DefaultRelations is the standard sub-resource table.
func DefaultRelations() Relations {
	return Relations{
		"priest_detail":             domain.KindPerson,
		"deacon_detail":             domain.KindPerson,
		"lay_detail":                domain.KindPerson,
		"assignment":                domain.KindPerson,
		"person_email":              domain.KindPerson,
		"person_phone":              domain.KindPerson,
		"person_language":           domain.KindPerson,
		"person_faculties_grant":    domain.KindPerson,
		"person_degree_certificate": domain.KindPerson,
		"person_status":             domain.KindPerson,
		"person_title":              domain.KindPerson,
		"person_relationship":       domain.KindPerson,

		"church_detail":           domain.KindLocation,
		"school_detail":           domain.KindLocation,
		"campus_ministry_detail":  domain.KindLocation,
		"hospital_detail":         domain.KindLocation,
		"other_entity_detail":     domain.KindLocation,
		"location_email":          domain.KindLocation,
		"location_phone":          domain.KindLocation,
		"location_status":         domain.KindLocation,
		"status_animarum":         domain.KindLocation,
		"offertory":               domain.KindLocation,
		"october_mass_count":      domain.KindLocation,
		"church_language":         domain.KindLocation,
		"social_outreach_program": domain.KindLocation,
	}
}

// Resolver turns a caller's grant list into a combinable query restriction.
// Pure with respect to its inputs; the injected relation table is the only
// configuration.
type Resolver struct {
	relations Relations
	logger    *zap.Logger
}

func NewResolver(relations Relations, logger *zap.Logger) *Resolver {
	return &Resolver{relations: relations, logger: logger}
}

// Resolve filters the grants to those relevant to base and combines their
// conditions: AND within a grant, OR across grants. No relevant grant
// yields the deny-all restriction, never the unrestricted set.
func (r *Resolver) Resolve(grants []domain.Grant, base domain.EntityKind) domain.Restriction {
	var alts [][]domain.Condition
	for _, g := range grants {
		if g.ResourceType == "" {
			r.logger.Warn("skipping grant without resource type")
			continue
		}
		if !g.AccessType.AllowsRead() {
			continue
		}
		if !r.relevant(g, base) {
			continue
		}
		alts = append(alts, conditionsOf(g))
	}
	if len(alts) == 0 {
		return domain.DenyAll()
	}
	return domain.Restriction{Alternatives: alts}
}

func (r *Resolver) relevant(g domain.Grant, base domain.EntityKind) bool {
	if g.ResourceType == string(base) {
		return true
	}
	mapped, ok := r.relations[g.ResourceType]
	return ok && mapped == base
}

// conditionsOf translates a grant's condition map into the typed variant
// language: lists become membership checks, scalars equality checks. Keys
// are sorted so generated SQL is deterministic.
func conditionsOf(g domain.Grant) []domain.Condition {
	conds := make([]domain.Condition, 0, len(g.FilterConditions))
	fields := make([]string, 0, len(g.FilterConditions))
	for f := range g.FilterConditions {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		switch v := g.FilterConditions[f].(type) {
		case []any:
			conds = append(conds, domain.In(f, v...))
		default:
			conds = append(conds, domain.Eq(f, v))
		}
	}
	return conds
}

// ViewLimits returns the field allow-list from the first grant whose
// resource type exactly equals the queried resource. A sub-resource grant
// never trims fields. The first matching grant decides: an empty limit
// list on it means no trimming, later grants are not consulted.
func (r *Resolver) ViewLimits(grants []domain.Grant, resource string) []string {
	for _, g := range grants {
		if g.ResourceType != resource {
			continue
		}
		if len(g.ViewLimits.Fields) == 0 {
			return nil
		}
		return g.ViewLimits.Fields
	}
	return nil
}

// AllowsExport reports whether any grant relevant to base carries an
// export-capable access type.
func (r *Resolver) AllowsExport(grants []domain.Grant, base domain.EntityKind) bool {
	for _, g := range grants {
		if r.relevant(g, base) && g.AccessType.AllowsExport() {
			return true
		}
	}
	return false
}
