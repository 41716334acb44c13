package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/sales-analytics/internal/models"
)

// Row is one aggregate bucket. Keys holds the group key values in spec order;
// date-valued keys are formatted as ISO dates (month buckets as the first of
// the month). Metrics holds reduced and derived values by name, currency
// already rounded to two places.
type Row struct {
	Keys    []string
	Metrics map[string]float64
}

// Metric returns the named metric, 0 when absent.
func (r Row) Metric(name string) float64 { return r.Metrics[name] }

const keySep = "\x1f"

type accumulator struct {
	keys     []string
	sums     map[string]decimal.Decimal
	counts   map[string]int64
	distinct map[string]map[string]struct{}
}

// Execute runs the spec over records in memory. Grouping is exact string
// equality of the key values; no normalization, no case folding. With no
// group keys the whole table is one bucket, present even for zero records.
func Execute(spec Spec, records []models.SalesRecord) ([]Row, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	buckets := map[string]*accumulator{}
	var order []string // bucket insertion order, for stable iteration

	bucket := func(key string, keys []string) *accumulator {
		acc, ok := buckets[key]
		if !ok {
			acc = &accumulator{
				keys:     keys,
				sums:     map[string]decimal.Decimal{},
				counts:   map[string]int64{},
				distinct: map[string]map[string]struct{}{},
			}
			buckets[key] = acc
			order = append(order, key)
		}
		return acc
	}

	if len(spec.GroupKeys) == 0 {
		bucket("", nil)
	}

	for _, rec := range records {
		keys := make([]string, len(spec.GroupKeys))
		for i, k := range spec.GroupKeys {
			keys[i] = keyValue(rec, k)
		}
		acc := bucket(strings.Join(keys, keySep), keys)

		for _, m := range spec.Metrics {
			switch m.Reducer {
			case Sum, Avg:
				acc.sums[m.Name] = acc.sums[m.Name].Add(measureValue(rec, m.Field))
				acc.counts[m.Name]++
			case Count:
				acc.counts[m.Name]++
			case CountDistinct:
				set := acc.distinct[m.Name]
				if set == nil {
					set = map[string]struct{}{}
					acc.distinct[m.Name] = set
				}
				set[dimensionValue(rec, m.Field)] = struct{}{}
			}
		}
	}

	rows := make([]Row, 0, len(buckets))
	for _, key := range order {
		acc := buckets[key]
		raw := map[string]decimal.Decimal{}
		metrics := map[string]float64{}

		for _, m := range spec.Metrics {
			var v decimal.Decimal
			switch m.Reducer {
			case Sum:
				v = acc.sums[m.Name]
			case Avg:
				if n := acc.counts[m.Name]; n > 0 {
					v = acc.sums[m.Name].Div(decimal.NewFromInt(n))
				}
			case Count:
				v = decimal.NewFromInt(acc.counts[m.Name])
			case CountDistinct:
				v = decimal.NewFromInt(int64(len(acc.distinct[m.Name])))
			}
			raw[m.Name] = v
			if currencyFields[m.Field] && (m.Reducer == Sum || m.Reducer == Avg) {
				v = v.Round(2)
			}
			metrics[m.Name] = v.InexactFloat64()
		}

		for _, d := range spec.Derived {
			metrics[d.Name] = ratioValue(raw[d.Numerator], raw[d.Denominator], d.Scale)
		}

		rows = append(rows, Row{Keys: acc.keys, Metrics: metrics})
	}

	sortRows(spec, rows)
	return rows, nil
}

// ratioValue guards the division: a denominator that is zero, absent or
// negative yields 0 rather than an error or a non-finite value.
func ratioValue(num, den decimal.Decimal, scale int64) float64 {
	if !den.IsPositive() {
		return 0
	}
	return num.Div(den).Mul(decimal.NewFromInt(scale)).Round(2).InexactFloat64()
}

func sortRows(spec Spec, rows []Row) {
	keyIdx := map[string]int{}
	for i, k := range spec.GroupKeys {
		keyIdx[k.Field] = i
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range spec.OrderBy {
			if idx, ok := keyIdx[o.Field]; ok {
				a, b := rows[i].Keys[idx], rows[j].Keys[idx]
				if a != b {
					if o.Desc {
						return a > b
					}
					return a < b
				}
				continue
			}
			a, b := rows[i].Metrics[o.Field], rows[j].Metrics[o.Field]
			if a != b {
				if o.Desc {
					return a > b
				}
				return a < b
			}
		}
		// deterministic tie-break: group key tuple ascending
		for k := range rows[i].Keys {
			if rows[i].Keys[k] != rows[j].Keys[k] {
				return rows[i].Keys[k] < rows[j].Keys[k]
			}
		}
		return false
	})
}

func keyValue(rec models.SalesRecord, k GroupKey) string {
	if dateFields[k.Field] {
		d := dateValue(rec, k.Field)
		if k.TruncMonth {
			d = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		}
		return d.Format("2006-01-02")
	}
	return dimensionValue(rec, k.Field)
}

func dimensionValue(rec models.SalesRecord, field string) string {
	switch field {
	case "order_id":
		return rec.OrderID
	case "region":
		return rec.Region
	case "country":
		return rec.Country
	case "item_type":
		return rec.ItemType
	case "sales_channel":
		return rec.SalesChannel
	case "order_priority":
		return rec.OrderPriority
	}
	return ""
}

func dateValue(rec models.SalesRecord, field string) time.Time {
	switch field {
	case "order_date":
		return rec.OrderDate
	case "ship_date":
		return rec.ShipDate
	}
	return time.Time{}
}

func measureValue(rec models.SalesRecord, field string) decimal.Decimal {
	switch field {
	case "units_sold":
		return decimal.NewFromInt(int64(rec.UnitsSold))
	case "unit_price":
		return rec.UnitPrice
	case "unit_cost":
		return rec.UnitCost
	case "total_revenue":
		return rec.TotalRevenue
	case "total_cost":
		return rec.TotalCost
	case "total_profit":
		return rec.TotalProfit
	}
	return decimal.Decimal{}
}
