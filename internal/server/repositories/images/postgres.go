// Package images persists gallery rows. Every statement is scoped by the
// owning vehicle, so a row of another vehicle is reported as not found.
package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/dbx"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, img *models.VehicleImage) (*models.VehicleImage, error) {
	query :=
		`INSERT INTO vehicle_images (vehicle_id, storage_key, order_index, is_featured)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		img.VehicleID, img.StorageKey, img.OrderIndex, img.IsFeatured).Scan(&img.ID, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return img, nil
}

// UpdatePosition moves a row and reports the storage key it points at.
func (r *PostgresRepository) UpdatePosition(ctx context.Context, vehicleID, id string, orderIndex int, isFeatured bool) (string, error) {
	query :=
		`UPDATE vehicle_images SET order_index = $3, is_featured = $4
		 WHERE vehicle_id = $1 AND id = $2
		 RETURNING storage_key
		 `

	var key string
	err := r.db.QueryRowContext(ctx, query, vehicleID, id, orderIndex, isFeatured).Scan(&key)
	if err != nil {
		return "", rowError(err)
	}

	return key, nil
}

// Delete removes a row and returns the storage key of its object.
func (r *PostgresRepository) Delete(ctx context.Context, vehicleID, id string) (string, error) {
	query := `DELETE FROM vehicle_images WHERE vehicle_id = $1 AND id = $2 RETURNING storage_key`

	var key string
	err := r.db.QueryRowContext(ctx, query, vehicleID, id).Scan(&key)
	if err != nil {
		return "", rowError(err)
	}

	return key, nil
}

// ListByVehicle returns the gallery in display order.
func (r *PostgresRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]*models.VehicleImage, error) {
	query :=
		`SELECT id, vehicle_id, storage_key, order_index, is_featured, created_at
		 FROM vehicle_images
		 WHERE vehicle_id = $1
		 ORDER BY order_index, created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*models.VehicleImage
	for rows.Next() {
		var item models.VehicleImage
		if err := rows.Scan(&item.ID, &item.VehicleID, &item.StorageKey, &item.OrderIndex, &item.IsFeatured, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func rowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
