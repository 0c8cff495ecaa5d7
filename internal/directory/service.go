package directory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/facet"
	"github.com/cryptadb/crypta/internal/permissions"
	"github.com/cryptadb/crypta/internal/projection"
	"github.com/cryptadb/crypta/internal/query"
	"github.com/cryptadb/crypta/internal/repository"
	"github.com/cryptadb/crypta/internal/stats"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// FilterTree is the faceted filter panel for one base: the value buckets
// for every configured facet plus range/toggle metadata for the
// statistical columns of the current result set.
type FilterTree struct {
	Facets []domain.FacetEntry `json:"facets"`
	Stats  []domain.StatInfo   `json:"stats"`
}

// Grid is one page-less result set: the column catalogue and the flat
// projected rows.
type Grid struct {
	Columns []domain.Column          `json:"columns"`
	Records []domain.ProjectedRecord `json:"records"`
}

// Service answers the three directory operations over both bases, always
// inside the caller's permission scope.
type Service struct {
	resolver    *permissions.Resolver
	projector   *projection.Projector
	summarizer  *stats.Summarizer
	facets      *facet.Builder
	registries  map[domain.EntityKind]*query.Registry
	facetFields map[domain.EntityKind][]string
	persons     repository.PersonRepository
	locations   repository.LocationRepository
	statPaths   map[string]string
	treeCache   *lru.Cache[string, *FilterTree]
	logger      *zap.Logger
}

// Config carries the injectable pieces of a Service. Zero-value fields
// fall back to the standard tables.
type Config struct {
	Resolver    *permissions.Resolver
	Projector   *projection.Projector
	Summarizer  *stats.Summarizer
	Facets      *facet.Builder
	Persons     repository.PersonRepository
	Locations   repository.LocationRepository
	FacetFields map[domain.EntityKind][]string
	CacheSize   int
	Logger      *zap.Logger
}

// NewService wires a directory service. The filter-tree cache is bounded;
// entries are keyed by grants, base and filters so a permission change
// never serves a stale tree.
func NewService(cfg Config) (*Service, error) {
	personReg, err := query.NewPersonRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build person registry: %w", err)
	}
	locationReg, err := query.NewLocationRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build location registry: %w", err)
	}

	if cfg.FacetFields == nil {
		cfg.FacetFields = DefaultFacetFields()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cache, err := lru.New[string, *FilterTree](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter tree cache: %w", err)
	}

	return &Service{
		resolver:   cfg.Resolver,
		projector:  cfg.Projector,
		summarizer: cfg.Summarizer,
		facets:     cfg.Facets,
		registries: map[domain.EntityKind]*query.Registry{
			domain.KindPerson:   personReg,
			domain.KindLocation: locationReg,
		},
		facetFields: cfg.FacetFields,
		persons:     cfg.Persons,
		locations:   cfg.Locations,
		statPaths:   projection.StatDisplayToPath(),
		treeCache:   cache,
		logger:      cfg.Logger,
	}, nil
}

// FilterTree computes the facet panel for base under the caller's grants
// and the filters already applied. Facet counts describe the filtered set;
// the stats section describes the same set's statistical columns.
func (s *Service) FilterTree(ctx context.Context, grants []domain.Grant, base domain.EntityKind, filters map[string][]string) (*FilterTree, error) {
	key := cacheKey(grants, base, filters)
	if tree, ok := s.treeCache.Get(key); ok {
		return tree, nil
	}

	q, err := s.compose(grants, base, filters, nil)
	if err != nil {
		return nil, err
	}
	facets, err := s.facets.Build(ctx, q, s.facetFields[base])
	if err != nil {
		return nil, err
	}

	tree := &FilterTree{Facets: facets, Stats: []domain.StatInfo{}}
	if base == domain.KindLocation {
		records, err := s.projectAll(ctx, q, base, nil)
		if err != nil {
			return nil, err
		}
		tree.Stats = s.summarizer.Summarize(records, s.columns(base))
	}

	s.treeCache.Add(key, tree)
	return tree, nil
}

// Grid loads and projects the full filtered result set. statBounds uses
// the display-name keys of the statistics columns, with _min/_max suffixes
// for ranges and bare keys for boolean toggles.
func (s *Service) Grid(ctx context.Context, grants []domain.Grant, base domain.EntityKind, filters map[string][]string, statBounds map[string]string) (*Grid, error) {
	bounds := query.ParseStatBounds(statBounds, s.statPaths)
	q, err := s.compose(grants, base, filters, bounds)
	if err != nil {
		return nil, err
	}

	allowed := s.resolver.ViewLimits(grants, string(base))
	records, err := s.projectAll(ctx, q, base, allowed)
	if err != nil {
		return nil, err
	}
	return &Grid{Columns: s.columns(base), Records: records}, nil
}

// SearchResults groups name matches by base. Each side is resolved under
// the caller's grants independently, so a caller scoped to one base sees
// an empty list for the other.
type SearchResults struct {
	Persons   []domain.SearchHit `json:"persons"`
	Locations []domain.SearchHit `json:"locations"`
}

// Search matches term against person and location names in one pass.
// User filters do not narrow search results; only grants do.
func (s *Service) Search(ctx context.Context, grants []domain.Grant, term string) (*SearchResults, error) {
	personQ, err := s.compose(grants, domain.KindPerson, nil, nil)
	if err != nil {
		return nil, err
	}
	locationQ, err := s.compose(grants, domain.KindLocation, nil, nil)
	if err != nil {
		return nil, err
	}

	persons, err := s.persons.Search(ctx, personQ, term)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.Search(ctx, locationQ, term)
	if err != nil {
		return nil, err
	}
	if persons == nil {
		persons = []domain.SearchHit{}
	}
	if locations == nil {
		locations = []domain.SearchHit{}
	}
	return &SearchResults{Persons: persons, Locations: locations}, nil
}

func (s *Service) compose(grants []domain.Grant, base domain.EntityKind, filters map[string][]string, bounds []query.Bound) (*query.EntityQuery, error) {
	restriction := s.resolver.Resolve(grants, base)
	return query.Compose(s.registries[base], restriction, filters, bounds)
}

func (s *Service) projectAll(ctx context.Context, q *query.EntityQuery, base domain.EntityKind, allowed []string) ([]domain.ProjectedRecord, error) {
	records := make([]domain.ProjectedRecord, 0)
	switch base {
	case domain.KindLocation:
		ids, err := s.locations.ListIDs(ctx, q)
		if err != nil {
			return nil, err
		}
		locations, err := s.locations.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range locations {
			records = append(records, s.projector.Location(&locations[i], allowed))
		}
	default:
		ids, err := s.persons.ListIDs(ctx, q)
		if err != nil {
			return nil, err
		}
		people, err := s.persons.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range people {
			records = append(records, s.projector.Person(&people[i], allowed))
		}
	}
	return records, nil
}

func (s *Service) columns(base domain.EntityKind) []domain.Column {
	if base == domain.KindLocation {
		return projection.LocationColumns()
	}
	return projection.PersonColumns()
}

// cacheKey folds grants, base and filters into a stable digest. Filter
// keys and values are sorted; grants keep their order since grant order
// never changes meaning (OR is commutative) but re-marshalling keeps the
// key deterministic for identical inputs.
func cacheKey(grants []domain.Grant, base domain.EntityKind, filters map[string][]string) string {
	h := sha256.New()
	if raw, err := json.Marshal(grants); err == nil {
		h.Write(raw)
	}
	h.Write([]byte("|" + string(base) + "|"))

	fields := make([]string, 0, len(filters))
	for f := range filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		values := append([]string(nil), filters[f]...)
		sort.Strings(values)
		h.Write([]byte(f + "=" + strings.Join(values, ",") + ";"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
