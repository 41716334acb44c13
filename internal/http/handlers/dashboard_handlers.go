package handlers

import (
	"log"
	"net/http"
)

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SuppliersHandler godoc
// @Summary Top 10 countries by total cost
// @Tags dashboard
// @Produce json
// @Success 200 {object} report.RankedTotals
// @Failure 500 {string} string "Internal error"
// @Router /api/suppliers/ [get]
func SuppliersHandler(w http.ResponseWriter, r *http.Request) {
	data, err := reports.Suppliers(10)
	if err != nil {
		log.Printf("suppliers report: %v", err)
		http.Error(w, "could not compute suppliers report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ClientsHandler godoc
// @Summary Top 10 countries by total revenue
// @Tags dashboard
// @Produce json
// @Success 200 {object} report.RankedTotals
// @Failure 500 {string} string "Internal error"
// @Router /api/clients/ [get]
func ClientsHandler(w http.ResponseWriter, r *http.Request) {
	data, err := reports.Clients(10)
	if err != nil {
		log.Printf("clients report: %v", err)
		http.Error(w, "could not compute clients report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ProductsHandler godoc
// @Summary Units sold per product type
// @Tags dashboard
// @Produce json
// @Success 200 {object} report.RankedTotals
// @Failure 500 {string} string "Internal error"
// @Router /api/products/ [get]
func ProductsHandler(w http.ResponseWriter, r *http.Request) {
	data, err := reports.Products(0)
	if err != nil {
		log.Printf("products report: %v", err)
		http.Error(w, "could not compute products report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// DashboardHandler godoc
// @Summary Dashboard digest: top-5 lists plus store totals
// @Tags dashboard
// @Produce json
// @Success 200 {object} report.Digest
// @Failure 500 {string} string "Internal error"
// @Router /api/dashboard/ [get]
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	digest, err := reports.Dashboard()
	if err != nil {
		log.Printf("dashboard digest: %v", err)
		http.Error(w, "could not compute dashboard digest", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, digest)
}
