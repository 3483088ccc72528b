// Package models defines server-side data models persisted in the database.
package models

import "time"

// Vehicle is the parent entity that owns a gallery.
type Vehicle struct {
	ID          string `json:"id" db:"id"`
	Make        string `json:"make" db:"make"`
	Model       string `json:"model" db:"model"`
	Year        int    `json:"year" db:"year"`
	Price       int64  `json:"price" db:"price"`
	Mileage     int    `json:"mileage" db:"mileage"`
	Description string `json:"description" db:"description"`
	// CoverImageURL is denormalized from the featured gallery image. It is
	// best effort and may lag behind the gallery after a failed write.
	CoverImageURL string    `json:"coverImageUrl" db:"cover_image_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// VehicleImage is one persisted gallery row.
type VehicleImage struct {
	ID         string    `db:"id"`
	VehicleID  string    `db:"vehicle_id"`
	StorageKey string    `db:"storage_key"`
	OrderIndex int       `db:"order_index"`
	IsFeatured bool      `db:"is_featured"`
	CreatedAt  time.Time `db:"created_at"`
}
