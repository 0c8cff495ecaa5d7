package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"github.com/jackc/pgx/v5/pgxpool"
)

type facetRepository struct {
	pool *pgxpool.Pool
}

// NewFacetRepository creates a PostgreSQL-backed facet counter.
func NewFacetRepository(pool *pgxpool.Pool) FacetRepository {
	return &facetRepository{pool: pool}
}

func (r *facetRepository) CountValues(ctx context.Context, q *query.EntityQuery, path string) ([]domain.FacetOption, error) {
	sql, args, err := q.FacetQuery(path)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count facet values for %q: %w", path, err)
	}
	defer rows.Close()

	var options []domain.FacetOption
	for rows.Next() {
		var (
			value any
			count int64
		)
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("failed to scan facet row for %q: %w", path, err)
		}
		options = append(options, facetOption(value, count))
	}
	return options, rows.Err()
}

// facetOption renders one distinct-value bucket. The label shown for an
// option is the rendered value itself.
func facetOption(value any, count int64) domain.FacetOption {
	v := facetValue(value)
	return domain.FacetOption{Value: v, Label: v, Count: count}
}

// facetValue renders a scanned column value the way the filter layer
// expects it back: dates in the human-readable layout it reparses, other
// values as plain strings.
func facetValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("January 2, 2006")
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
