package stats

import (
	"strconv"

	"github.com/cryptadb/crypta/internal/domain"

	"go.uber.org/zap"
)

// Summarizer inspects projected records' Statistics-tagged columns and
// derives the range/toggle metadata the filter UI needs.
type Summarizer struct {
	logger *zap.Logger
}

func NewSummarizer(logger *zap.Logger) *Summarizer {
	return &Summarizer{logger: logger}
}

// Summarize computes one StatInfo per Statistics column with at least one
// non-null value: a presence toggle when every value is boolean, otherwise
// a numeric min/max. Values that coerce to neither are skipped with a
// warning; a wrong min/max is never emitted silently.
func (s *Summarizer) Summarize(records []domain.ProjectedRecord, columns []domain.Column) []domain.StatInfo {
	infos := make([]domain.StatInfo, 0)
	for _, col := range columns {
		if col.Category != "Statistics" {
			continue
		}

		values := make([]any, 0, len(records))
		for _, rec := range records {
			if v, ok := rec[col.Field]; ok && v != nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		if allBoolean(values) {
			infos = append(infos, domain.StatInfo{
				Field:   col.Field,
				Display: col.Title,
				Type:    domain.StatBoolean,
			})
			continue
		}

		var min, max float64
		seen := 0
		for _, v := range values {
			n, ok := asNumber(v)
			if !ok {
				s.logger.Warn("non-numeric value in statistics column",
					zap.String("field", col.Field),
					zap.Any("value", v))
				continue
			}
			if seen == 0 || n < min {
				min = n
			}
			if seen == 0 || n > max {
				max = n
			}
			seen++
		}
		if seen == 0 {
			continue
		}
		lo, hi := min, max
		infos = append(infos, domain.StatInfo{
			Field:   col.Field,
			Display: col.Title,
			Type:    domain.StatNumber,
			Min:     &lo,
			Max:     &hi,
		})
	}
	return infos
}

func allBoolean(values []any) bool {
	for _, v := range values {
		if _, ok := v.(bool); !ok {
			return false
		}
	}
	return true
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
