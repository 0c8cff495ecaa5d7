package projection

import (
	"strings"
	"time"

	"github.com/cryptadb/crypta/internal/domain"

	"go.uber.org/zap"
)

// Projector flattens entities and their related data into display-ready
// records. It is pure computation; the title-case normalization and the
// clock are injected so deployments and tests can vary them.
type Projector struct {
	titleCase bool
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures the projector.
type Option func(*Projector)

// WithTitleCase toggles the blanket title-casing of string output fields.
// On by default for UI parity.
func WithTitleCase(enabled bool) Option {
	return func(p *Projector) { p.titleCase = enabled }
}

// WithClock overrides the active-assignment reference date.
func WithClock(now func() time.Time) Option {
	return func(p *Projector) { p.now = now }
}

// WithLogger sets the projector's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Projector) { p.logger = logger }
}

func New(opts ...Option) *Projector {
	p := &Projector{
		titleCase: true,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// finish applies the uniform output normalization and the per-grant field
// trim. Trimming happens after projection so a partial allow-list can
// never short-circuit computation into garbled values.
func (p *Projector) finish(rec domain.ProjectedRecord, allowed []string) domain.ProjectedRecord {
	if p.titleCase {
		for k, v := range rec {
			if s, ok := v.(string); ok {
				rec[k] = titleCase(s)
			}
		}
	}
	if allowed != nil {
		keep := make(map[string]bool, len(allowed))
		for _, f := range allowed {
			keep[f] = true
		}
		for k := range rec {
			if !keep[k] {
				delete(rec, k)
			}
		}
	}
	return rec
}

// titleCase capitalizes each space-separated word and lowercases the rest,
// matching the display normalization the UI expects. Applied uniformly to
// every string field, proper noun or not.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// formatDate renders a date as ISO-8601, empty string when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatWindow renders a history row's date range: "{start} → {end}",
// with "present" standing in for an open end.
func formatWindow(start time.Time, end *time.Time) string {
	endStr := "present"
	if end != nil {
		endStr = end.Format("2006-01-02")
	}
	return start.Format("2006-01-02") + " → " + endStr
}

// joinHistory renders dated entries as "{label} ({start} → {end|present})"
// joined by semicolons.
func joinHistory(entries []domain.DatedEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Name+" ("+formatWindow(e.DateAssigned, e.DateReleased)+")")
	}
	return strings.Join(parts, "; ")
}

// joinContacts joins the values of contacts matching the given type.
func joinContacts(contacts []domain.TypedContact, contactType string) string {
	vals := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if strings.EqualFold(c.Type, contactType) {
			vals = append(vals, c.Value)
		}
	}
	return strings.Join(vals, "; ")
}

// joinAllContacts joins every contact value regardless of type.
func joinAllContacts(contacts []domain.TypedContact) string {
	vals := make([]string, 0, len(contacts))
	for _, c := range contacts {
		vals = append(vals, c.Value)
	}
	return strings.Join(vals, "; ")
}

func joinStrings(vals []string) string {
	return strings.Join(vals, "; ")
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
