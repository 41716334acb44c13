package handlers

import (
	"github.com/rogerio-castellano/sales-analytics/internal/repo"
	"github.com/rogerio-castellano/sales-analytics/internal/report"
)

var (
	salesRepo repo.SalesRepository
	reports   *report.Service
)

func SetSalesRepo(r repo.SalesRepository) {
	salesRepo = r
}

func SetReportService(s *report.Service) {
	reports = s
}
