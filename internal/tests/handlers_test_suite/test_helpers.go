package handlers_test_suite

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/sales-analytics/internal/cache"
	api "github.com/rogerio-castellano/sales-analytics/internal/http"
	handler "github.com/rogerio-castellano/sales-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
	"github.com/rogerio-castellano/sales-analytics/internal/repo"
	"github.com/rogerio-castellano/sales-analytics/internal/report"
)

var salesRepo *repo.InMemorySalesRepository

// setupTestRepos wires fresh in-memory storage and a fresh digest cache into
// the handlers, so tests never see another test's cached dashboard.
func setupTestRepos() http.Handler {
	salesRepo = repo.NewInMemorySalesRepository()
	handler.SetSalesRepo(salesRepo)
	handler.SetReportService(report.NewService(salesRepo, cache.NewMemory(), time.Minute))
	return api.NewRouter()
}

func seedRecords(records ...models.SalesRecord) {
	if _, err := salesRepo.UpsertBatch(records); err != nil {
		panic(fmt.Sprintf("seeding failed: %v", err))
	}
}

func salesRecord(orderID, region, country, itemType string, units int, revenue, profit float64, orderDate time.Time) models.SalesRecord {
	return models.SalesRecord{
		OrderID:       orderID,
		Region:        region,
		Country:       country,
		ItemType:      itemType,
		SalesChannel:  "Online",
		OrderPriority: "H",
		OrderDate:     orderDate,
		ShipDate:      orderDate.AddDate(0, 0, 7),
		UnitsSold:     units,
		UnitPrice:     decimal.NewFromFloat(12.50),
		UnitCost:      decimal.NewFromFloat(8.25),
		TotalRevenue:  decimal.NewFromFloat(revenue),
		TotalCost:     decimal.NewFromFloat(revenue - profit),
		TotalProfit:   decimal.NewFromFloat(profit),
	}
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "sales.csv")
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
