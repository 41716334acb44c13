package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/sales-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/sales-analytics/internal/report"
)

const sampleCSV = `Region,Country,Item Type,Sales Channel,Order Priority,Order Date,Order ID,Ship Date,Units Sold,Unit Price,Unit Cost,Total Revenue,Total Cost,Total Profit
Europe,France,Fruit,Online,H,3/17/2024,100001,3/24/2024,10,9.33,6.92,93.30,69.20,24.10
Europe,Spain,Meat,Offline,M,2024-03-18,100002,2024-03-25,5,421.89,364.69,2109.45,1823.45,286.00
`

func TestImportCSV(t *testing.T) {
	r := setupTestRepos()

	w := importCSV(r, sampleCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var result handler.ImportResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("expected 2 imported / 0 skipped, got %+v", result)
	}

	total, _ := salesRepo.Count()
	if total != 2 {
		t.Errorf("expected 2 stored records, got %d", total)
	}
}

func TestImportCSVIsIdempotent(t *testing.T) {
	r := setupTestRepos()

	if w := importCSV(r, sampleCSV); w.Code != http.StatusOK {
		t.Fatalf("first import failed: %d", w.Code)
	}

	w := importCSV(r, sampleCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("second import failed: %d", w.Code)
	}
	var result handler.ImportResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 2 {
		t.Errorf("expected 0 imported / 2 skipped on re-import, got %+v", result)
	}

	total, _ := salesRepo.Count()
	if total != 2 {
		t.Errorf("expected 2 stored records after re-import, got %d", total)
	}
}

func TestImportCSVInvalidatesDashboard(t *testing.T) {
	r := setupTestRepos()

	w := get(r, "/api/dashboard/")
	var before report.Digest
	json.NewDecoder(w.Body).Decode(&before)
	if before.TotalRecords != 0 {
		t.Fatalf("expected empty store, got %d records", before.TotalRecords)
	}

	if w := importCSV(r, sampleCSV); w.Code != http.StatusOK {
		t.Fatalf("import failed: %d", w.Code)
	}

	w = get(r, "/api/dashboard/")
	var after report.Digest
	if err := json.NewDecoder(w.Body).Decode(&after); err != nil {
		t.Fatalf("failed to decode digest: %v", err)
	}
	if after.TotalRecords != 2 {
		t.Errorf("expected digest refresh after import, got %d records", after.TotalRecords)
	}
}

func TestImportCSVRejectsMalformedUploads(t *testing.T) {
	r := setupTestRepos()

	cases := map[string]string{
		"missing column": "Region,Country\nEurope,France\n",
		"bad units":      "Region,Country,Item Type,Sales Channel,Order Priority,Order Date,Order ID,Ship Date,Units Sold,Unit Price,Unit Cost,Total Revenue,Total Cost,Total Profit\nEurope,France,Fruit,Online,H,3/17/2024,100001,3/24/2024,ten,9.33,6.92,93.30,69.20,24.10\n",
		"bad date":       "Region,Country,Item Type,Sales Channel,Order Priority,Order Date,Order ID,Ship Date,Units Sold,Unit Price,Unit Cost,Total Revenue,Total Cost,Total Profit\nEurope,France,Fruit,Online,H,someday,100001,3/24/2024,10,9.33,6.92,93.30,69.20,24.10\n",
		"empty order id": "Region,Country,Item Type,Sales Channel,Order Priority,Order Date,Order ID,Ship Date,Units Sold,Unit Price,Unit Cost,Total Revenue,Total Cost,Total Profit\nEurope,France,Fruit,Online,H,3/17/2024,,3/24/2024,10,9.33,6.92,93.30,69.20,24.10\n",
	}

	for name, csvContent := range cases {
		if w := importCSV(r, csvContent); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, w.Code)
		}
	}

	total, _ := salesRepo.Count()
	if total != 0 {
		t.Errorf("expected no records after rejected imports, got %d", total)
	}
}
