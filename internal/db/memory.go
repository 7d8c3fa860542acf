package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/ukydev/ototansan/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MemoryRecordCollection implements RecordCollection in memory. Every
// mutation replaces the backing slice, so slices handed out earlier are never
// modified.
type MemoryRecordCollection struct {
	mu      sync.RWMutex
	records []models.ServiceRecord
}

// NewMemoryRecordCollection returns a collection holding a copy of seed.
func NewMemoryRecordCollection(seed []models.ServiceRecord) *MemoryRecordCollection {
	return &MemoryRecordCollection{records: append([]models.ServiceRecord(nil), seed...)}
}

// InsertRecord prepends a record to the collection.
func (c *MemoryRecordCollection) InsertRecord(ctx context.Context, record models.ServiceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.ID == "" {
		return fmt.Errorf("record id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]models.ServiceRecord, 0, len(c.records)+1)
	next = append(next, record)
	c.records = append(next, c.records...)
	return nil
}

// FindRecords returns the records matching filter. An empty filter matches all.
func (c *MemoryRecordCollection) FindRecords(ctx context.Context, filter bson.M) ([]models.ServiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	snapshot := c.records
	c.mu.RUnlock()

	out := make([]models.ServiceRecord, 0, len(snapshot))
	for _, r := range snapshot {
		ok, err := matches(r, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecordByID finds a record by its ID.
func (c *MemoryRecordCollection) FindRecordByID(ctx context.Context, id string) (*models.ServiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if r.ID == id {
			record := r
			return &record, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteRecord removes the record with the given id. Deleting an absent id
// leaves the collection unchanged and reports false.
func (c *MemoryRecordCollection) DeleteRecord(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]models.ServiceRecord, 0, len(c.records))
	for _, r := range c.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if len(next) == len(c.records) {
		return false, nil
	}
	c.records = next
	return true, nil
}

// MemoryProductCollection implements ProductCollection in memory.
type MemoryProductCollection struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewMemoryProductCollection returns a collection holding a copy of seed.
func NewMemoryProductCollection(seed []models.Product) *MemoryProductCollection {
	return &MemoryProductCollection{products: append([]models.Product(nil), seed...)}
}

// InsertProduct prepends a product to the catalog.
func (c *MemoryProductCollection) InsertProduct(ctx context.Context, product models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if product.ID == "" {
		return fmt.Errorf("product id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]models.Product, 0, len(c.products)+1)
	next = append(next, product)
	c.products = append(next, c.products...)
	return nil
}

// FindProducts returns the products matching filter.
func (c *MemoryProductCollection) FindProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	snapshot := c.products
	c.mu.RUnlock()

	out := make([]models.Product, 0, len(snapshot))
	for _, p := range snapshot {
		ok, err := matches(p, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindProductByID finds a product by its ID.
func (c *MemoryProductCollection) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteProduct removes the product with the given id.
func (c *MemoryProductCollection) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(c.products) {
		return false, nil
	}
	c.products = next
	return true, nil
}

// matches applies an equality filter keyed by bson field names.
func matches(doc interface{}, filter bson.M) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode document: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return false, fmt.Errorf("failed to decode document: %w", err)
	}

	for key, want := range filter {
		got, ok := fields[key]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}
