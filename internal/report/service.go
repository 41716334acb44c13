package report

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/sales-analytics/internal/aggregate"
	"github.com/rogerio-castellano/sales-analytics/internal/cache"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
	"github.com/rogerio-castellano/sales-analytics/internal/repo"
)

// SummaryPageSize is the fixed page size of the sales summary feed.
const SummaryPageSize = 1000

const digestCacheKey = "dashboard:digest"

// Service evaluates the fixed reports against a sales repository. Every
// report is a pure read; the only state is the dashboard digest cache.
type Service struct {
	repo      repo.SalesRepository
	cache     cache.Cache
	digestTTL time.Duration
}

func NewService(r repo.SalesRepository, c cache.Cache, digestTTL time.Duration) *Service {
	return &Service{repo: r, cache: c, digestTTL: digestTTL}
}

// SalesSummary returns one page of per-record rows, newest order date first,
// along with the total record count. page is 1-based.
func (s *Service) SalesSummary(page int) ([]SummaryRow, int, error) {
	records, total, err := s.repo.ListPage(SummaryPageSize, (page-1)*SummaryPageSize)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]SummaryRow, len(records))
	for i, rec := range records {
		rows[i] = SummaryRow{
			OrderID:       rec.OrderID,
			Region:        rec.Region,
			Country:       rec.Country,
			ItemType:      rec.ItemType,
			SalesChannel:  rec.SalesChannel,
			OrderPriority: rec.OrderPriority,
			OrderDate:     rec.OrderDate.Format("2006-01-02"),
			ShipDate:      rec.ShipDate.Format("2006-01-02"),
			UnitsSold:     rec.UnitsSold,
			UnitPrice:     rec.UnitPrice.Round(2).InexactFloat64(),
			UnitCost:      rec.UnitCost.Round(2).InexactFloat64(),
			TotalRevenue:  rec.TotalRevenue.Round(2).InexactFloat64(),
			TotalCost:     rec.TotalCost.Round(2).InexactFloat64(),
			TotalProfit:   rec.TotalProfit.Round(2).InexactFloat64(),
			ProfitMargin:  recordMargin(rec),
		}
	}
	return rows, total, nil
}

func (s *Service) CountryMetrics() ([]CountryRow, error) {
	rows, err := s.repo.Aggregate(countryMetricsSpec())
	if err != nil {
		return nil, err
	}
	out := make([]CountryRow, len(rows))
	for i, row := range rows {
		out[i] = CountryRow{
			Region:        row.Keys[0],
			Country:       row.Keys[1],
			TotalOrders:   int(row.Metric("total_orders")),
			TotalRevenue:  row.Metric("total_revenue"),
			TotalCost:     row.Metric("total_cost"),
			TotalProfit:   row.Metric("total_profit"),
			TotalUnits:    int(row.Metric("total_units")),
			AvgOrderValue: row.Metric("avg_order_value"),
			ProfitMargin:  row.Metric("profit_margin"),
		}
	}
	return out, nil
}

func (s *Service) ProductMetrics() ([]ProductRow, error) {
	rows, err := s.repo.Aggregate(productMetricsSpec())
	if err != nil {
		return nil, err
	}
	out := make([]ProductRow, len(rows))
	for i, row := range rows {
		out[i] = ProductRow{
			ItemType:     row.Keys[0],
			TotalOrders:  int(row.Metric("total_orders")),
			TotalRevenue: row.Metric("total_revenue"),
			TotalCost:    row.Metric("total_cost"),
			TotalProfit:  row.Metric("total_profit"),
			TotalUnits:   int(row.Metric("total_units")),
			AvgUnitPrice: row.Metric("avg_unit_price"),
			AvgUnitCost:  row.Metric("avg_unit_cost"),
			ProfitMargin: row.Metric("profit_margin"),
		}
	}
	return out, nil
}

func (s *Service) MonthlyTrends() ([]MonthlyRow, error) {
	rows, err := s.repo.Aggregate(monthlyTrendsSpec())
	if err != nil {
		return nil, err
	}
	out := make([]MonthlyRow, len(rows))
	for i, row := range rows {
		bucket, err := time.Parse("2006-01-02", row.Keys[0])
		if err != nil {
			return nil, err
		}
		out[i] = MonthlyRow{
			YearMonth:    row.Keys[0],
			Year:         bucket.Year(),
			Month:        int(bucket.Month()),
			MonthName:    bucket.Month().String(),
			TotalOrders:  int(row.Metric("total_orders")),
			TotalRevenue: row.Metric("total_revenue"),
			TotalCost:    row.Metric("total_cost"),
			TotalProfit:  row.Metric("total_profit"),
			TotalUnits:   int(row.Metric("total_units")),
			ProfitMargin: row.Metric("profit_margin"),
		}
	}
	return out, nil
}

func (s *Service) SalesChannelMetrics() ([]ChannelRow, error) {
	rows, err := s.repo.Aggregate(salesChannelMetricsSpec())
	if err != nil {
		return nil, err
	}
	out := make([]ChannelRow, len(rows))
	for i, row := range rows {
		out[i] = ChannelRow{
			SalesChannel:  row.Keys[0],
			OrderPriority: row.Keys[1],
			TotalOrders:   int(row.Metric("total_orders")),
			TotalRevenue:  row.Metric("total_revenue"),
			TotalCost:     row.Metric("total_cost"),
			TotalProfit:   row.Metric("total_profit"),
			TotalUnits:    int(row.Metric("total_units")),
			AvgOrderValue: row.Metric("avg_order_value"),
			ProfitMargin:  row.Metric("profit_margin"),
		}
	}
	return out, nil
}

func (s *Service) RegionalSummary() ([]RegionRow, error) {
	rows, err := s.repo.Aggregate(regionalSummarySpec())
	if err != nil {
		return nil, err
	}
	out := make([]RegionRow, len(rows))
	for i, row := range rows {
		out[i] = RegionRow{
			Region:         row.Keys[0],
			TotalCountries: int(row.Metric("total_countries")),
			TotalOrders:    int(row.Metric("total_orders")),
			TotalRevenue:   row.Metric("total_revenue"),
			TotalCost:      row.Metric("total_cost"),
			TotalProfit:    row.Metric("total_profit"),
			TotalUnits:     int(row.Metric("total_units")),
			AvgOrderValue:  row.Metric("avg_order_value"),
			ProfitMargin:   row.Metric("profit_margin"),
		}
	}
	return out, nil
}

// Suppliers ranks countries by total cost, descending, capped at limit.
func (s *Service) Suppliers(limit int) (RankedTotals, error) {
	return s.countryTotals("total_cost", limit)
}

// Clients ranks countries by total revenue, descending, capped at limit.
func (s *Service) Clients(limit int) (RankedTotals, error) {
	return s.countryTotals("total_revenue", limit)
}

func (s *Service) countryTotals(field string, limit int) (RankedTotals, error) {
	rows, err := s.repo.Aggregate(countryTotalSpec(field))
	if err != nil {
		return nil, err
	}
	return topN(rows, field, limit), nil
}

// Products returns units sold per product type. limit <= 0 means all.
func (s *Service) Products(limit int) (RankedTotals, error) {
	rows, err := s.repo.Aggregate(productUnitsSpec())
	if err != nil {
		return nil, err
	}
	return topN(rows, "total_units", limit), nil
}

// Dashboard composes the digest, serving it from the cache within the TTL.
func (s *Service) Dashboard() (Digest, error) {
	if raw, ok := s.cache.Get(digestCacheKey); ok {
		var d Digest
		if err := json.Unmarshal(raw, &d); err == nil {
			return d, nil
		}
		log.Printf("discarding unreadable cached digest")
		s.cache.Invalidate(digestCacheKey)
	}

	var d Digest
	var err error
	if d.Suppliers, err = s.Suppliers(5); err != nil {
		return Digest{}, err
	}
	if d.Clients, err = s.Clients(5); err != nil {
		return Digest{}, err
	}
	if d.Products, err = s.Products(5); err != nil {
		return Digest{}, err
	}

	totals, err := s.repo.Aggregate(storeTotalsSpec())
	if err != nil {
		return Digest{}, err
	}
	if len(totals) > 0 {
		d.TotalRecords = int(totals[0].Metric("total_records"))
		d.TotalRevenue = totals[0].Metric("total_revenue")
	}

	if raw, err := json.Marshal(d); err == nil {
		s.cache.Set(digestCacheKey, raw, s.digestTTL)
	}
	return d, nil
}

// InvalidateDashboard drops the cached digest; called after a bulk load so
// the next poll sees the new records immediately.
func (s *Service) InvalidateDashboard() {
	s.cache.Invalidate(digestCacheKey)
}

func topN(rows []aggregate.Row, metric string, limit int) RankedTotals {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make(RankedTotals, len(rows))
	for i, row := range rows {
		out[i] = RankedTotal{Name: row.Keys[0], Value: row.Metric(metric)}
	}
	return out
}

// recordMargin is the per-record profit margin with the zero-revenue guard.
func recordMargin(rec models.SalesRecord) float64 {
	if !rec.TotalRevenue.IsPositive() {
		return 0
	}
	return rec.TotalProfit.Div(rec.TotalRevenue).
		Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
