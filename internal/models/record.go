package models

import (
	"time"
)

// ServiceIntervalKm is the distance between two oil changes.
const ServiceIntervalKm = 5000

// MaxKilometers bounds odometer readings accepted on the add-service form.
const MaxKilometers = 10_000_000

// DateLayout is the wire format of ServiceRecord.Date.
const DateLayout = "2006-01-02"

// ServiceRecord represents one logged oil change for a vehicle and its owner.
type ServiceRecord struct {
	ID            string `json:"id" bson:"_id"`
	OwnerID       string `json:"owner_id" bson:"owner_id"`
	OwnerName     string `json:"owner_name" bson:"owner_name"`
	CarModel      string `json:"car_model" bson:"car_model"`
	Date          string `json:"date" bson:"date"` // YYYY-MM-DD
	Kilometers    int    `json:"kilometers" bson:"kilometers"`
	OilType       string `json:"oil_type" bson:"oil_type"`
	Notes         string `json:"notes,omitempty" bson:"notes,omitempty"`
	NextServiceKm int    `json:"next_service_km" bson:"next_service_km"`
}

// RecordInput carries the fields of the add-service form.
type RecordInput struct {
	CustomerName string `json:"customer_name"`
	CarModel     string `json:"car_model"`
	Date         string `json:"date"`
	Kilometers   int    `json:"kilometers"`
	OilType      string `json:"oil_type"`
	Notes        string `json:"notes"`
}

// NextServiceKm returns the odometer reading at which the next service is due.
func NextServiceKm(kilometers int) int {
	return kilometers + ServiceIntervalKm
}

// ServiceDate parses Date. The zero time is returned for malformed dates.
func (r ServiceRecord) ServiceDate() time.Time {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Validate checks the required form fields. requireCustomer is set when the
// form is submitted by staff on behalf of a customer.
func (in RecordInput) Validate(requireCustomer bool) error {
	if requireCustomer && in.CustomerName == "" {
		return &ValidationError{Field: "customer_name", Message: "wajib diisi"}
	}
	if in.CarModel == "" {
		return &ValidationError{Field: "car_model", Message: "wajib diisi"}
	}
	if in.Date == "" {
		return &ValidationError{Field: "date", Message: "wajib diisi"}
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return &ValidationError{Field: "date", Message: "format tanggal harus YYYY-MM-DD"}
	}
	if in.Kilometers < 0 {
		return &ValidationError{Field: "kilometers", Message: "tidak boleh negatif"}
	}
	if in.Kilometers > MaxKilometers {
		return &ValidationError{Field: "kilometers", Message: "melebihi batas 10.000.000 km"}
	}
	if in.OilType == "" {
		return &ValidationError{Field: "oil_type", Message: "wajib diisi"}
	}
	return nil
}
