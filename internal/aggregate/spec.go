// Package aggregate computes grouped aggregates over sales records. A Spec
// describes the grouping, reductions, derived ratios and ordering of one
// report; it can be executed in memory (Execute) or rendered to a single
// Postgres statement (SQL). Both executors share the same semantics.
package aggregate

import (
	"errors"
	"fmt"
)

// Reducer names how a metric collapses the rows of a group.
type Reducer string

const (
	Sum           Reducer = "sum"
	Avg           Reducer = "avg"
	Count         Reducer = "count"
	CountDistinct Reducer = "count_distinct"
)

// GroupKey is one dimension of the grouping tuple. TruncMonth buckets a date
// field to the first day of its month (civil calendar, no timezone math).
type GroupKey struct {
	Field      string
	TruncMonth bool
}

// Metric is one reduced value per group, addressed by Name in ordering,
// derived ratios and output rows.
type Metric struct {
	Name    string
	Field   string
	Reducer Reducer
}

// Ratio is a derived metric: Numerator/Denominator*Scale, rounded to two
// places. A zero or negative denominator yields 0, never an error or Inf.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
	Scale       int64
}

// Order sorts output rows by a group key field or a metric name. Ties are
// always broken by the group key tuple ascending, so output is deterministic.
type Order struct {
	Field string
	Desc  bool
}

type Spec struct {
	GroupKeys []GroupKey
	Metrics   []Metric
	Derived   []Ratio
	OrderBy   []Order
}

// ErrInvalidSpec wraps every validation failure.
var ErrInvalidSpec = errors.New("invalid aggregation spec")

// Field classes of the sales record relation.
var (
	dimensionFields = map[string]bool{
		"order_id":       true,
		"region":         true,
		"country":        true,
		"item_type":      true,
		"sales_channel":  true,
		"order_priority": true,
	}
	dateFields = map[string]bool{
		"order_date": true,
		"ship_date":  true,
	}
	measureFields = map[string]bool{
		"units_sold":    true,
		"unit_price":    true,
		"unit_cost":     true,
		"total_revenue": true,
		"total_cost":    true,
		"total_profit":  true,
	}
	currencyFields = map[string]bool{
		"unit_price":    true,
		"unit_cost":     true,
		"total_revenue": true,
		"total_cost":    true,
		"total_profit":  true,
	}
)

// IsDateField reports whether a group key field holds a civil date, which is
// what decides the scan type when reading translated SQL results.
func IsDateField(name string) bool { return dateFields[name] }

// Validate checks the spec against the record relation. All failures wrap
// ErrInvalidSpec.
func (s Spec) Validate() error {
	if len(s.GroupKeys) == 0 && len(s.Metrics) == 0 {
		return fmt.Errorf("%w: no group keys and no metrics", ErrInvalidSpec)
	}

	names := map[string]bool{}
	for _, k := range s.GroupKeys {
		if !dimensionFields[k.Field] && !dateFields[k.Field] {
			return fmt.Errorf("%w: unknown group key field %q", ErrInvalidSpec, k.Field)
		}
		if k.TruncMonth && !dateFields[k.Field] {
			return fmt.Errorf("%w: month truncation on non-date field %q", ErrInvalidSpec, k.Field)
		}
		names[k.Field] = true
	}

	for _, m := range s.Metrics {
		if m.Name == "" {
			return fmt.Errorf("%w: metric with empty name", ErrInvalidSpec)
		}
		if names[m.Name] {
			return fmt.Errorf("%w: duplicate output name %q", ErrInvalidSpec, m.Name)
		}
		switch m.Reducer {
		case Sum, Avg:
			if !measureFields[m.Field] {
				return fmt.Errorf("%w: %s over non-measure field %q", ErrInvalidSpec, m.Reducer, m.Field)
			}
		case Count:
			if m.Field != "" && !dimensionFields[m.Field] && !measureFields[m.Field] && !dateFields[m.Field] {
				return fmt.Errorf("%w: count over unknown field %q", ErrInvalidSpec, m.Field)
			}
		case CountDistinct:
			if !dimensionFields[m.Field] {
				return fmt.Errorf("%w: count_distinct over non-dimension field %q", ErrInvalidSpec, m.Field)
			}
		default:
			return fmt.Errorf("%w: unknown reducer %q", ErrInvalidSpec, m.Reducer)
		}
		names[m.Name] = true
	}

	for _, d := range s.Derived {
		if d.Name == "" {
			return fmt.Errorf("%w: derived metric with empty name", ErrInvalidSpec)
		}
		if !s.hasMetric(d.Numerator) || !s.hasMetric(d.Denominator) {
			return fmt.Errorf("%w: ratio %q references unknown metric", ErrInvalidSpec, d.Name)
		}
		if names[d.Name] {
			return fmt.Errorf("%w: duplicate output name %q", ErrInvalidSpec, d.Name)
		}
		names[d.Name] = true
	}

	for _, o := range s.OrderBy {
		if !names[o.Field] {
			return fmt.Errorf("%w: order by unknown field %q", ErrInvalidSpec, o.Field)
		}
	}
	return nil
}

func (s Spec) hasMetric(name string) bool {
	for _, m := range s.Metrics {
		if m.Name == name {
			return true
		}
	}
	return false
}
