package db

import (
	"context"
	"errors"

	"github.com/ukydev/ototansan/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned when no document matches an id.
var ErrNotFound = errors.New("not found")

// RecordCollection defines the interface for service record operations.
// Find results keep collection order, newest first.
type RecordCollection interface {
	InsertRecord(ctx context.Context, record models.ServiceRecord) error
	FindRecords(ctx context.Context, filter bson.M) ([]models.ServiceRecord, error)
	FindRecordByID(ctx context.Context, id string) (*models.ServiceRecord, error)
	DeleteRecord(ctx context.Context, id string) (bool, error)
}

// ProductCollection defines the interface for catalog operations.
type ProductCollection interface {
	InsertProduct(ctx context.Context, product models.Product) error
	FindProducts(ctx context.Context, filter bson.M) ([]models.Product, error)
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}
