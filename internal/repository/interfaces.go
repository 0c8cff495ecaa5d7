package repository

import (
	"context"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"
)

// PersonRepository defines the read operations over the person base.
type PersonRepository interface {
	// ListIDs runs the composed query and returns the deduplicated base
	// row ids. A deny-all query yields an empty list without touching
	// the store.
	ListIDs(ctx context.Context, q *query.EntityQuery) ([]int64, error)
	// GetByIDs loads people with every related collection the projector
	// needs, one eager-loading pass per relation.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Person, error)
	// Search matches first/middle/last name case-insensitively within
	// the permission-scoped set.
	Search(ctx context.Context, q *query.EntityQuery, term string) ([]domain.SearchHit, error)
}

// LocationRepository defines the read operations over the location base.
type LocationRepository interface {
	ListIDs(ctx context.Context, q *query.EntityQuery) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Location, error)
	Search(ctx context.Context, q *query.EntityQuery, term string) ([]domain.SearchHit, error)
}

// FacetRepository computes distinct-value counts for facet paths over a
// composed query.
type FacetRepository interface {
	CountValues(ctx context.Context, q *query.EntityQuery, path string) ([]domain.FacetOption, error)
}
