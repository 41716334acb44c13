package repo

import (
	"sort"
	"sync"

	"github.com/rogerio-castellano/sales-analytics/internal/aggregate"
	"github.com/rogerio-castellano/sales-analytics/internal/models"
)

// InMemorySalesRepository mirrors the Postgres repository over a slice,
// delegating aggregation to the in-memory engine. Used by the handler test
// suites and local runs without a database.
type InMemorySalesRepository struct {
	mu      sync.RWMutex
	records []models.SalesRecord
	byOrder map[string]bool
	nextID  int
}

func NewInMemorySalesRepository() *InMemorySalesRepository {
	return &InMemorySalesRepository{byOrder: map[string]bool{}, nextID: 1}
}

func (r *InMemorySalesRepository) Aggregate(spec aggregate.Spec) ([]aggregate.Row, error) {
	r.mu.RLock()
	snapshot := make([]models.SalesRecord, len(r.records))
	copy(snapshot, r.records)
	r.mu.RUnlock()

	return aggregate.Execute(spec, snapshot)
}

func (r *InMemorySalesRepository) ListPage(limit, offset int) ([]models.SalesRecord, int, error) {
	r.mu.RLock()
	sorted := make([]models.SalesRecord, len(r.records))
	copy(sorted, r.records)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OrderDate.Equal(sorted[j].OrderDate) {
			return sorted[i].OrderDate.After(sorted[j].OrderDate)
		}
		return sorted[i].OrderID < sorted[j].OrderID
	})

	total := len(sorted)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return sorted[offset:end], total, nil
}

func (r *InMemorySalesRepository) UpsertBatch(records []models.SalesRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := 0
	for _, rec := range records {
		if r.byOrder[rec.OrderID] {
			continue
		}
		rec.ID = r.nextID
		r.nextID++
		r.records = append(r.records, rec)
		r.byOrder[rec.OrderID] = true
		created++
	}
	return created, nil
}

func (r *InMemorySalesRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *InMemorySalesRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.byOrder = map[string]bool{}
	r.nextID = 1
}
