package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one row of the sales_records table. Rows are written only by
// the idempotent CSV bulk load (unique on OrderID); the reporting layer reads.
// Dates are civil dates stored at midnight UTC.
type SalesRecord struct {
	ID            int             `json:"id"`
	OrderID       string          `json:"order_id"`
	Region        string          `json:"region"`
	Country       string          `json:"country"`
	ItemType      string          `json:"item_type"`
	SalesChannel  string          `json:"sales_channel"`
	OrderPriority string          `json:"order_priority"`
	OrderDate     time.Time       `json:"order_date"`
	ShipDate      time.Time       `json:"ship_date"`
	UnitsSold     int             `json:"units_sold"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}
