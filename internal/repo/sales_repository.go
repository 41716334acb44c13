package repo

import (
	"errors"

	"github.com/rogerio-castellano/sales-analytics/internal/aggregate"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
)

var ErrUpstreamQuery = errors.New("record store query failed")

// SalesRepository defines the read surface over the sales record store, plus
// the idempotent bulk load that feeds it.
type SalesRepository interface {
	// Aggregate evaluates an aggregation spec against the store.
	Aggregate(spec aggregate.Spec) ([]aggregate.Row, error)
	// ListPage returns one page of records ordered by order_date descending,
	// order_id ascending, along with the total record count.
	ListPage(limit, offset int) ([]models.SalesRecord, int, error)
	// UpsertBatch inserts records, skipping any whose order_id already
	// exists. Returns the number actually inserted.
	UpsertBatch(records []models.SalesRecord) (int, error)
	Count() (int, error)
}
