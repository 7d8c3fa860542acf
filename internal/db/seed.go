package db

import (
	"github.com/ukydev/ototansan/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns an opaque identifier for a new record or product.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// SeedRecords returns the service records every page session starts with.
func SeedRecords() []models.ServiceRecord {
	return []models.ServiceRecord{
		{
			ID:            "1",
			OwnerID:       "user-1",
			OwnerName:     "Budi Santoso",
			CarModel:      "Toyota Innova Reborn",
			Date:          "2023-12-15",
			Kilometers:    45000,
			OilType:       "Shell Helix HX8 5W-30",
			NextServiceKm: 50000,
			Notes:         "Ganti filter oli juga.",
		},
		{
			ID:            "2",
			OwnerID:       "user-1",
			OwnerName:     "Budi Santoso",
			CarModel:      "Honda CR-V Turbo",
			Date:          "2024-01-20",
			Kilometers:    12500,
			OilType:       "Honda E-Pro Gold 0W-20",
			NextServiceKm: 17500,
			Notes:         "Servis berkala pertama.",
		},
	}
}

// SeedProducts returns the catalog every page session starts with.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "p1",
			Name:        "Shell Helix HX8 5W-30",
			Category:    models.CategoryOil,
			Price:       185000,
			Image:       "https://images.unsplash.com/photo-1635784063683-b275b4348d1a?auto=format&fit=crop&q=80&w=600",
			Description: "Oli sintetis penuh untuk performa mesin maksimal.",
		},
		{
			ID:          "p2",
			Name:        "Filter Oli Toyota",
			Category:    models.CategorySparepart,
			Price:       85000,
			Image:       "https://images.unsplash.com/photo-1517524206127-48bbd363f3d7?auto=format&fit=crop&q=80&w=600",
			Description: "Filter oli orisinil untuk Toyota Innova/Fortuner.",
		},
		{
			ID:          "p3",
			Name:        "Jasa Ganti Oli",
			Category:    models.CategoryService,
			Price:       50000,
			Image:       "https://images.unsplash.com/photo-1487754180451-c456f719a1fc?auto=format&fit=crop&q=80&w=600",
			Description: "Biaya jasa mekanik profesional.",
		},
	}
}
