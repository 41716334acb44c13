package report

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/sales-analytics/internal/cache"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
	"github.com/rogerio-castellano/sales-analytics/internal/repo"
)

func newTestService(records ...models.SalesRecord) (*Service, *repo.InMemorySalesRepository) {
	r := repo.NewInMemorySalesRepository()
	if _, err := r.UpsertBatch(records); err != nil {
		panic(err)
	}
	return NewService(r, cache.NewMemory(), time.Minute), r
}

func salesRecord(orderID, region, country, itemType, channel string, units int, revenue, profit float64, orderDate time.Time) models.SalesRecord {
	return models.SalesRecord{
		OrderID:       orderID,
		Region:        region,
		Country:       country,
		ItemType:      itemType,
		SalesChannel:  channel,
		OrderPriority: "M",
		OrderDate:     orderDate,
		ShipDate:      orderDate.AddDate(0, 0, 5),
		UnitsSold:     units,
		UnitPrice:     decimal.NewFromFloat(10),
		UnitCost:      decimal.NewFromFloat(7),
		TotalRevenue:  decimal.NewFromFloat(revenue),
		TotalCost:     decimal.NewFromFloat(revenue - profit),
		TotalProfit:   decimal.NewFromFloat(profit),
	}
}

func TestCountryMetrics(t *testing.T) {
	march := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(
		salesRecord("A1", "Americas", "US", "Fruit", "Online", 10, 100, 20, march),
		salesRecord("A2", "Americas", "US", "Fruit", "Online", 5, 50, 5, march),
		salesRecord("A3", "Europe", "France", "Fruit", "Online", 2, 30, 3, march),
	)

	rows, err := svc.CountryMetrics()
	if err != nil {
		t.Fatalf("country metrics failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// sorted by (Region, Country) ascending
	if rows[0].Country != "US" || rows[1].Country != "France" {
		t.Fatalf("unexpected row order: %s, %s", rows[0].Country, rows[1].Country)
	}

	us := rows[0]
	if us.TotalOrders != 2 {
		t.Errorf("expected TotalOrders 2, got %d", us.TotalOrders)
	}
	if us.TotalRevenue != 150 {
		t.Errorf("expected TotalRevenue 150, got %v", us.TotalRevenue)
	}
	if us.TotalProfit != 25 {
		t.Errorf("expected TotalProfit 25, got %v", us.TotalProfit)
	}
	if us.ProfitMargin != 16.67 {
		t.Errorf("expected ProfitMargin 16.67, got %v", us.ProfitMargin)
	}
	if us.AvgOrderValue != 75 {
		t.Errorf("expected AvgOrderValue 75, got %v", us.AvgOrderValue)
	}
}

func TestProductMetricsOrderedByRevenueDescending(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(
		salesRecord("A1", "Americas", "US", "Fruit", "Online", 1, 100, 10, day),
		salesRecord("A2", "Americas", "US", "Meat", "Online", 1, 300, 30, day),
		salesRecord("A3", "Americas", "US", "Cereal", "Online", 1, 200, 20, day),
	)

	rows, err := svc.ProductMetrics()
	if err != nil {
		t.Fatalf("product metrics failed: %v", err)
	}
	want := []string{"Meat", "Cereal", "Fruit"}
	for i, w := range want {
		if rows[i].ItemType != w {
			t.Fatalf("expected order %v, got %s at %d", want, rows[i].ItemType, i)
		}
	}
}

func TestMonthlyTrendsBucketFields(t *testing.T) {
	svc, _ := newTestService(
		salesRecord("A1", "Americas", "US", "Fruit", "Online", 1, 100, 10,
			time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)),
	)

	rows, err := svc.MonthlyTrends()
	if err != nil {
		t.Fatalf("monthly trends failed: %v", err)
	}
	m := rows[0]
	if m.YearMonth != "2024-03-01" {
		t.Errorf("expected YearMonth 2024-03-01, got %s", m.YearMonth)
	}
	if m.Year != 2024 || m.Month != 3 || m.MonthName != "March" {
		t.Errorf("unexpected bucket fields: %d %d %s", m.Year, m.Month, m.MonthName)
	}
}

func TestRegionalSummaryDistinctCountries(t *testing.T) {
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(
		salesRecord("A1", "Americas", "US", "Fruit", "Online", 1, 100, 10, day),
		salesRecord("A2", "Americas", "CA", "Fruit", "Online", 1, 100, 10, day),
		salesRecord("A3", "Americas", "US", "Fruit", "Online", 1, 100, 10, day),
	)

	rows, err := svc.RegionalSummary()
	if err != nil {
		t.Fatalf("regional summary failed: %v", err)
	}
	if rows[0].TotalCountries != 2 {
		t.Errorf("expected 2 distinct countries, got %d", rows[0].TotalCountries)
	}
	if rows[0].TotalOrders != 3 {
		t.Errorf("expected 3 orders, got %d", rows[0].TotalOrders)
	}
}

func TestSalesSummaryZeroRevenueGuard(t *testing.T) {
	svc, _ := newTestService(
		salesRecord("A1", "Americas", "US", "Fruit", "Online", 1, 0, 0,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	)

	rows, _, err := svc.SalesSummary(1)
	if err != nil {
		t.Fatalf("sales summary failed: %v", err)
	}
	if rows[0].ProfitMargin != 0 {
		t.Errorf("expected ProfitMargin 0 for zero revenue, got %v", rows[0].ProfitMargin)
	}
}

func TestDashboardDigestTopFive(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	var records []models.SalesRecord
	for i := 0; i < 7; i++ {
		rev := float64(100 * (i + 1))
		records = append(records, salesRecord(
			fmt.Sprintf("A%d", i), "Europe", fmt.Sprintf("Country%d", i), "Fruit", "Online",
			i+1, rev, rev/10, day))
	}
	svc, _ := newTestService(records...)

	d, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(d.Clients) != 5 {
		t.Errorf("expected top-5 clients, got %d", len(d.Clients))
	}
	if d.Clients[0].Name != "Country6" {
		t.Errorf("expected highest-revenue country ranked first, got %s", d.Clients[0].Name)
	}
	if _, ok := d.Clients.Get("Country0"); ok {
		t.Error("lowest-revenue country must not be in top-5")
	}
	if d.TotalRecords != 7 {
		t.Errorf("expected 7 records, got %d", d.TotalRecords)
	}
	if d.TotalRevenue != 2800 {
		t.Errorf("expected total revenue 2800, got %v", d.TotalRevenue)
	}
}

func TestRankedTotalsKeepOrderInJSON(t *testing.T) {
	totals := RankedTotals{
		{Name: "Zimbabwe", Value: 810},
		{Name: "Malta", Value: 450},
		{Name: "Austria", Value: 90},
	}

	raw, err := json.Marshal(totals)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"Zimbabwe":810,"Malta":450,"Austria":90}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}

	var back RankedTotals
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for i := range totals {
		if back[i] != totals[i] {
			t.Fatalf("rank %d changed across round trip: %+v vs %+v", i, back[i], totals[i])
		}
	}
}

func TestDashboardDigestRankedDescendingFromCache(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(
		salesRecord("A1", "Europe", "Austria", "Fruit", "Online", 1, 100, 10, day),
		salesRecord("A2", "Europe", "Zimbabwe", "Fruit", "Online", 1, 900, 90, day),
		salesRecord("A3", "Europe", "Malta", "Fruit", "Online", 1, 500, 50, day),
	)

	if _, err := svc.Dashboard(); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	// second call is served from the cache and must keep the ranking
	d, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("cached dashboard failed: %v", err)
	}
	want := []string{"Zimbabwe", "Malta", "Austria"}
	for i, w := range want {
		if d.Clients[i].Name != w {
			t.Fatalf("expected clients ranked %v, got %s at %d", want, d.Clients[i].Name, i)
		}
	}
}

func TestDashboardDigestCachedUntilInvalidated(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	svc, r := newTestService(
		salesRecord("A1", "Europe", "France", "Fruit", "Online", 1, 100, 10, day),
	)

	d, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if d.TotalRecords != 1 {
		t.Fatalf("expected 1 record, got %d", d.TotalRecords)
	}

	r.UpsertBatch([]models.SalesRecord{
		salesRecord("A2", "Europe", "Spain", "Fruit", "Online", 1, 100, 10, day),
	})

	d, _ = svc.Dashboard()
	if d.TotalRecords != 1 {
		t.Fatalf("expected cached digest within TTL, got %d records", d.TotalRecords)
	}

	svc.InvalidateDashboard()
	d, _ = svc.Dashboard()
	if d.TotalRecords != 2 {
		t.Errorf("expected fresh digest after invalidation, got %d records", d.TotalRecords)
	}
}

func TestDashboardDigestEmptyStore(t *testing.T) {
	svc, _ := newTestService()

	d, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard failed on empty store: %v", err)
	}
	if d.TotalRecords != 0 || d.TotalRevenue != 0 {
		t.Errorf("expected zeroed totals, got %+v", d)
	}
}
