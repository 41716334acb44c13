package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/sales-analytics/internal/aggregate"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
)

const salesTable = "sales_records"

type PostgresSalesRepository struct {
	db *sql.DB
}

func NewPostgresSalesRepository(db *sql.DB) *PostgresSalesRepository {
	return &PostgresSalesRepository{db: db}
}

func (r *PostgresSalesRepository) Aggregate(spec aggregate.Spec) ([]aggregate.Row, error) {
	stmt, err := aggregate.SQL(spec, salesTable)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}
	defer rows.Close()

	metricNames := make([]string, 0, len(spec.Metrics)+len(spec.Derived))
	for _, m := range spec.Metrics {
		metricNames = append(metricNames, m.Name)
	}
	for _, d := range spec.Derived {
		metricNames = append(metricNames, d.Name)
	}

	var out []aggregate.Row
	for rows.Next() {
		dates := make([]time.Time, len(spec.GroupKeys))
		strs := make([]string, len(spec.GroupKeys))
		values := make([]float64, len(metricNames))

		dest := make([]any, 0, len(spec.GroupKeys)+len(values))
		for i, k := range spec.GroupKeys {
			if aggregate.IsDateField(k.Field) {
				dest = append(dest, &dates[i])
			} else {
				dest = append(dest, &strs[i])
			}
		}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
		}

		row := aggregate.Row{Metrics: make(map[string]float64, len(values))}
		if len(spec.GroupKeys) > 0 {
			row.Keys = make([]string, len(spec.GroupKeys))
			for i, k := range spec.GroupKeys {
				if aggregate.IsDateField(k.Field) {
					row.Keys[i] = dates[i].Format("2006-01-02")
				} else {
					row.Keys[i] = strs[i]
				}
			}
		}
		for i, name := range metricNames {
			row.Metrics[name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}
	return out, nil
}

func (r *PostgresSalesRepository) ListPage(limit, offset int) ([]models.SalesRecord, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}

	query := `
		SELECT id, order_id, region, country, item_type, sales_channel, order_priority,
		       order_date, ship_date, units_sold, unit_price, unit_cost,
		       total_revenue, total_cost, total_profit
		FROM sales_records
		ORDER BY order_date DESC, order_id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(
			&rec.ID, &rec.OrderID, &rec.Region, &rec.Country, &rec.ItemType,
			&rec.SalesChannel, &rec.OrderPriority, &rec.OrderDate, &rec.ShipDate,
			&rec.UnitsSold, &rec.UnitPrice, &rec.UnitCost,
			&rec.TotalRevenue, &rec.TotalCost, &rec.TotalProfit,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}
	return records, total, nil
}

func (r *PostgresSalesRepository) UpsertBatch(records []models.SalesRecord) (int, error) {
	query := `
		INSERT INTO sales_records (order_id, region, country, item_type, sales_channel,
			order_priority, order_date, ship_date, units_sold, unit_price, unit_cost,
			total_revenue, total_cost, total_profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (order_id) DO NOTHING
	`
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	for _, rec := range records {
		res, err := r.db.ExecContext(ctx, query,
			rec.OrderID, rec.Region, rec.Country, rec.ItemType, rec.SalesChannel,
			rec.OrderPriority, rec.OrderDate, rec.ShipDate, rec.UnitsSold,
			rec.UnitPrice, rec.UnitCost, rec.TotalRevenue, rec.TotalCost, rec.TotalProfit,
		)
		if err != nil {
			return created, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}

func (r *PostgresSalesRepository) Count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales_records`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamQuery, err)
	}
	return total, nil
}
