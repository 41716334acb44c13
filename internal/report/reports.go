package report

import "github.com/rogerio-castellano/sales-analytics/internal/aggregate"

// Fixed aggregation configurations, one per named report. These never change
// at runtime; the generic validation in the engine exists for safety, not
// because these can be malformed.

var profitMargin = aggregate.Ratio{
	Name:        "profit_margin",
	Numerator:   "total_profit",
	Denominator: "total_revenue",
	Scale:       100,
}

func sumMetrics() []aggregate.Metric {
	return []aggregate.Metric{
		{Name: "total_orders", Field: "order_id", Reducer: aggregate.Count},
		{Name: "total_revenue", Field: "total_revenue", Reducer: aggregate.Sum},
		{Name: "total_cost", Field: "total_cost", Reducer: aggregate.Sum},
		{Name: "total_profit", Field: "total_profit", Reducer: aggregate.Sum},
		{Name: "total_units", Field: "units_sold", Reducer: aggregate.Sum},
	}
}

func countryMetricsSpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "region"}, {Field: "country"}},
		Metrics: append(sumMetrics(),
			aggregate.Metric{Name: "avg_order_value", Field: "total_revenue", Reducer: aggregate.Avg}),
		Derived: []aggregate.Ratio{profitMargin},
		OrderBy: []aggregate.Order{{Field: "region"}, {Field: "country"}},
	}
}

func productMetricsSpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "item_type"}},
		Metrics: append(sumMetrics(),
			aggregate.Metric{Name: "avg_unit_price", Field: "unit_price", Reducer: aggregate.Avg},
			aggregate.Metric{Name: "avg_unit_cost", Field: "unit_cost", Reducer: aggregate.Avg}),
		Derived: []aggregate.Ratio{profitMargin},
		OrderBy: []aggregate.Order{{Field: "total_revenue", Desc: true}},
	}
}

func monthlyTrendsSpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "order_date", TruncMonth: true}},
		Metrics:   sumMetrics(),
		Derived:   []aggregate.Ratio{profitMargin},
		OrderBy:   []aggregate.Order{{Field: "order_date"}},
	}
}

func salesChannelMetricsSpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "sales_channel"}, {Field: "order_priority"}},
		Metrics: append(sumMetrics(),
			aggregate.Metric{Name: "avg_order_value", Field: "total_revenue", Reducer: aggregate.Avg}),
		Derived: []aggregate.Ratio{profitMargin},
		OrderBy: []aggregate.Order{{Field: "sales_channel"}, {Field: "total_revenue", Desc: true}},
	}
}

func regionalSummarySpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "region"}},
		Metrics: append([]aggregate.Metric{
			{Name: "total_countries", Field: "country", Reducer: aggregate.CountDistinct},
		}, append(sumMetrics(),
			aggregate.Metric{Name: "avg_order_value", Field: "total_revenue", Reducer: aggregate.Avg})...),
		Derived: []aggregate.Ratio{profitMargin},
		OrderBy: []aggregate.Order{{Field: "total_revenue", Desc: true}},
	}
}

// countryTotalSpec backs the suppliers (total_cost) and clients
// (total_revenue) country rankings.
func countryTotalSpec(field string) aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "country"}},
		Metrics:   []aggregate.Metric{{Name: field, Field: field, Reducer: aggregate.Sum}},
		OrderBy:   []aggregate.Order{{Field: field, Desc: true}},
	}
}

func productUnitsSpec() aggregate.Spec {
	return aggregate.Spec{
		GroupKeys: []aggregate.GroupKey{{Field: "item_type"}},
		Metrics:   []aggregate.Metric{{Name: "total_units", Field: "units_sold", Reducer: aggregate.Sum}},
		OrderBy:   []aggregate.Order{{Field: "total_units", Desc: true}},
	}
}

func storeTotalsSpec() aggregate.Spec {
	return aggregate.Spec{
		Metrics: []aggregate.Metric{
			{Name: "total_records", Reducer: aggregate.Count},
			{Name: "total_revenue", Field: "total_revenue", Reducer: aggregate.Sum},
		},
	}
}
