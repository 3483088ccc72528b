package vehicles

import (
	"context"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateCoverImage(ctx context.Context, id string, url string) error
}
