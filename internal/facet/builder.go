package facet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"go.uber.org/zap"
)

// CountSource supplies the distinct value buckets for one field path over
// an already-filtered entity set. Implemented by the repositories; faked
// in tests.
type CountSource interface {
	CountValues(ctx context.Context, q *query.EntityQuery, path string) ([]domain.FacetOption, error)
}

// Builder computes the filter tree: one facet per configured field with at
// least one non-null value in the current filtered set. The label table is
// injected configuration, not a package global.
type Builder struct {
	source CountSource
	labels map[string]string
	logger *zap.Logger
}

func NewBuilder(source CountSource, labels map[string]string, logger *zap.Logger) *Builder {
	return &Builder{source: source, labels: labels, logger: logger}
}

// Build evaluates each configured field against the filtered set, keeping
// the configured order. Fields whose values are all null are omitted
// entirely. Each facet is computed against the full filtered set,
// independent of the other facets.
func (b *Builder) Build(ctx context.Context, q *query.EntityQuery, fields []string) ([]domain.FacetEntry, error) {
	tree := make([]domain.FacetEntry, 0, len(fields))
	if q.DeniesAll() {
		return tree, nil
	}
	for _, field := range fields {
		opts, err := b.source.CountValues(ctx, q, field)
		if err != nil {
			return nil, fmt.Errorf("failed to count facet values for %q: %w", field, err)
		}
		if len(opts) == 0 {
			continue
		}
		tree = append(tree, domain.FacetEntry{
			Field:   field,
			Display: b.displayLabel(field),
			Options: opts,
		})
	}
	return tree, nil
}

// displayLabel looks the field up in the configured label table, falling
// back to a mechanical transform of the raw path.
func (b *Builder) displayLabel(field string) string {
	if label, ok := b.labels[field]; ok {
		return label
	}
	words := strings.FieldsFunc(field, func(r rune) bool {
		return r == '.' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
