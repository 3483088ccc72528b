// Package models defines client-side data models used by the gallery editor.
package models

import "time"

// VehicleFields are the editable fields of a vehicle as sent by the editor.
type VehicleFields struct {
	Make        string
	Model       string
	Year        int
	Price       int64
	Mileage     int
	Description string
}

// Vehicle is the server's view of a vehicle.
type Vehicle struct {
	ID            string    `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Price         int64     `json:"price"`
	Mileage       int       `json:"mileage"`
	Description   string    `json:"description"`
	CoverImageURL string    `json:"coverImageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Fields returns the editable part of v.
func (v *Vehicle) Fields() VehicleFields {
	return VehicleFields{
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Price:       v.Price,
		Mileage:     v.Mileage,
		Description: v.Description,
	}
}

// Failure is one reconciliation operation that did not succeed.
type Failure struct {
	Op    string `json:"op"`
	Item  string `json:"item"`
	Error string `json:"error"`
}

// SubmissionResult is the server's answer to a settled submission.
type SubmissionResult struct {
	VehicleID         string    `json:"vehicleId"`
	Settled           bool      `json:"settled"`
	CoverImageURL     string    `json:"coverImageUrl"`
	CoverImageUpdated bool      `json:"coverImageUpdated"`
	Failures          []Failure `json:"failures"`
}

// Partial reports whether some operations failed.
func (r *SubmissionResult) Partial() bool {
	return len(r.Failures) > 0
}
