package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/sales-analytics/internal/report"
)

// SalesSummaryHandler godoc
// @Summary Paginated per-record sales feed
// @Tags powerbi
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} PageEnvelope
// @Failure 404 {string} string "Invalid page"
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/sales-summary/ [get]
func SalesSummaryHandler(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			http.Error(w, "invalid page", http.StatusNotFound)
			return
		}
		page = p
	}

	rows, total, err := reports.SalesSummary(page)
	if err != nil {
		log.Printf("sales summary: %v", err)
		http.Error(w, "could not compute sales summary", http.StatusInternalServerError)
		return
	}

	lastPage := (total + report.SummaryPageSize - 1) / report.SummaryPageSize
	if lastPage == 0 {
		lastPage = 1
	}
	if page > lastPage {
		http.Error(w, "invalid page", http.StatusNotFound)
		return
	}

	if rows == nil {
		rows = []report.SummaryRow{}
	}
	writeJSON(w, http.StatusOK, pageEnvelope(r, page, report.SummaryPageSize, total, rows))
}

// CountryMetricsHandler godoc
// @Summary Aggregated metrics per region and country
// @Tags powerbi
// @Produce json
// @Success 200 {array} report.CountryRow
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/country-metrics/ [get]
func CountryMetricsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reports.CountryMetrics()
	if err != nil {
		log.Printf("country metrics: %v", err)
		http.Error(w, "could not compute country metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ProductMetricsHandler godoc
// @Summary Aggregated metrics per product type
// @Tags powerbi
// @Produce json
// @Success 200 {array} report.ProductRow
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/product-metrics/ [get]
func ProductMetricsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reports.ProductMetrics()
	if err != nil {
		log.Printf("product metrics: %v", err)
		http.Error(w, "could not compute product metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// MonthlyTrendsHandler godoc
// @Summary Monthly sales trend buckets
// @Tags powerbi
// @Produce json
// @Success 200 {array} report.MonthlyRow
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/monthly-trends/ [get]
func MonthlyTrendsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reports.MonthlyTrends()
	if err != nil {
		log.Printf("monthly trends: %v", err)
		http.Error(w, "could not compute monthly trends", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// SalesChannelMetricsHandler godoc
// @Summary Aggregated metrics per sales channel and priority
// @Tags powerbi
// @Produce json
// @Success 200 {array} report.ChannelRow
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/sales-channel-metrics/ [get]
func SalesChannelMetricsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reports.SalesChannelMetrics()
	if err != nil {
		log.Printf("sales channel metrics: %v", err)
		http.Error(w, "could not compute sales channel metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// RegionalSummaryHandler godoc
// @Summary Aggregated metrics per region
// @Tags powerbi
// @Produce json
// @Success 200 {array} report.RegionRow
// @Failure 500 {string} string "Internal error"
// @Router /powerbi/regional-summary/ [get]
func RegionalSummaryHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reports.RegionalSummary()
	if err != nil {
		log.Printf("regional summary: %v", err)
		http.Error(w, "could not compute regional summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
