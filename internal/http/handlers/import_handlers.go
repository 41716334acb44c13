package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/sales-analytics/internal/models"
)

// Column set of the sales export files the loader accepts.
var csvColumns = []string{
	"region", "country", "item type", "sales channel", "order priority",
	"order date", "order id", "ship date", "units sold", "unit price",
	"unit cost", "total revenue", "total cost", "total profit",
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSVHandler godoc
// @Summary Bulk-load sales records from a CSV export
// @Description Inserts rows keyed by Order ID; existing orders are skipped, so re-importing a file is a no-op.
// @Tags import
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResult
// @Failure 400 {string} string "Malformed upload"
// @Failure 500 {string} string "Internal error"
// @Router /api/import/csv [post]
func ImportCSVHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseSalesCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := salesRepo.UpsertBatch(records)
	if err != nil {
		log.Printf("csv import: %v", err)
		http.Error(w, "could not import records", http.StatusInternalServerError)
		return
	}

	// the digest must reflect the new records on the next poll
	reports.InvalidateDashboard()

	writeJSON(w, http.StatusOK, ImportResult{
		Imported: created,
		Skipped:  len(records) - created,
	})
}

func parseSalesCSV(file multipart.File) ([]models.SalesRecord, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	field := func(record []string, col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	var records []models.SalesRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}
		line++

		rec := models.SalesRecord{
			OrderID:       field(record, "order id"),
			Region:        field(record, "region"),
			Country:       field(record, "country"),
			ItemType:      field(record, "item type"),
			SalesChannel:  field(record, "sales channel"),
			OrderPriority: field(record, "order priority"),
		}
		if rec.OrderID == "" {
			return nil, fmt.Errorf("line %d: missing order id", line)
		}

		if rec.OrderDate, err = parseDate(field(record, "order date")); err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		if rec.ShipDate, err = parseDate(field(record, "ship date")); err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}

		if rec.UnitsSold, err = strconv.Atoi(field(record, "units sold")); err != nil {
			return nil, fmt.Errorf("line %d: invalid units sold", line)
		}
		if rec.UnitsSold < 0 {
			return nil, fmt.Errorf("line %d: negative units sold", line)
		}

		for col, dst := range map[string]*decimal.Decimal{
			"unit price":    &rec.UnitPrice,
			"unit cost":     &rec.UnitCost,
			"total revenue": &rec.TotalRevenue,
			"total cost":    &rec.TotalCost,
			"total profit":  &rec.TotalProfit,
		} {
			if *dst, err = decimal.NewFromString(field(record, col)); err != nil {
				return nil, fmt.Errorf("line %d: invalid %s", line, col)
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

// parseDate accepts both ISO dates and the M/D/YYYY format of the upstream
// sales exports.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
