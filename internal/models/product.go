package models

import (
	"fmt"
	"math"
)

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryOil       Category = "Oli"
	CategorySparepart Category = "Sparepart"
	CategoryService   Category = "Jasa"
	CategoryOther     Category = "Lainnya"
)

// Categories lists every category in form order.
var Categories = []Category{CategoryOil, CategorySparepart, CategoryService, CategoryOther}

// PlaceholderImage is used when a product is added without an image.
const PlaceholderImage = "https://img-wrapper.vercel.app/image?url=https://placehold.co/600x400?text=Produk"

// Product represents a catalog entry.
type Product struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Category    Category `json:"category" bson:"category"`
	Price       float64  `json:"price" bson:"price"`
	Image       string   `json:"image" bson:"image"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// ProductInput carries the fields of the add-product form.
type ProductInput struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryOil, CategorySparepart, CategoryService, CategoryOther:
		return true
	default:
		return false
	}
}

// Label is the form label of the category.
func (c Category) Label() string {
	switch c {
	case CategoryOil:
		return "Oli Mesin"
	case CategorySparepart:
		return "Sparepart"
	case CategoryService:
		return "Jasa Servis"
	case CategoryOther:
		return "Lainnya"
	default:
		return string(c)
	}
}

// Validate checks the required form fields.
func (in ProductInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "wajib diisi"}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Message: "kategori tidak dikenal"}
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return &ValidationError{Field: "price", Message: "harus berupa angka"}
	}
	if in.Price < 0 {
		return &ValidationError{Field: "price", Message: "tidak boleh negatif"}
	}
	return nil
}
