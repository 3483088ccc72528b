package images

import (
	"context"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, img *models.VehicleImage) (*models.VehicleImage, error)
	UpdatePosition(ctx context.Context, vehicleID, id string, orderIndex int, isFeatured bool) (string, error)
	Delete(ctx context.Context, vehicleID, id string) (string, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]*models.VehicleImage, error)
}
