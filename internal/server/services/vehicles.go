// Package services contains server-side business logic: vehicle validation
// and persistence, and gallery submissions driven through reconciliation.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/dbx"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/repositories/repomanager"
)

// URLResolver turns a storage path into a public URL.
type URLResolver interface {
	URL(path string) string
}

type VehicleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	urls        URLResolver
	now         func() time.Time
}

func NewVehicleService(db *sql.DB, rm repomanager.RepositoryManager, urls URLResolver) *VehicleService {
	return &VehicleService{db: db, repomanager: rm, urls: urls, now: time.Now}
}

// Create validates in and inserts a new vehicle.
func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	return s.create(ctx, s.db, in)
}

func (s *VehicleService) create(ctx context.Context, db dbx.DBTX, in VehicleInput) (*models.Vehicle, error) {
	v, err := s.repomanager.Vehicles(db).Create(ctx, vehicleFromInput("", in))
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// Update validates in and overwrites the vehicle's fields. Unknown or
// malformed ids yield common.ErrorNotFound.
func (s *VehicleService) Update(ctx context.Context, id string, in VehicleInput) (*models.Vehicle, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	var out *models.Vehicle
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vehicles(tx)
		if err := repo.Update(ctx, vehicleFromInput(id, in)); err != nil {
			return err
		}
		v, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return out, nil
}

func (s *VehicleService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Vehicles(s.db).GetByID(ctx, id)
}

// Gallery returns the persisted images of a vehicle in display order, as the
// editor seeds them. Both reads see one consistent snapshot.
func (s *VehicleService) Gallery(ctx context.Context, id string) ([]gallery.Snapshot, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	var out []gallery.Snapshot
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Vehicles(tx).GetByID(ctx, id); err != nil {
			return err
		}
		rows, err := s.repomanager.Images(tx).ListByVehicle(ctx, id)
		if err != nil {
			return err
		}
		out = make([]gallery.Snapshot, 0, len(rows))
		for _, r := range rows {
			out = append(out, gallery.Snapshot{
				ID:         r.ID,
				StorageKey: r.StorageKey,
				URL:        s.urls.URL(gallery.StoragePath(id, r.StorageKey)),
				OrderIndex: r.OrderIndex,
				IsFeatured: r.IsFeatured,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func vehicleFromInput(id string, in VehicleInput) *models.Vehicle {
	return &models.Vehicle{
		ID:          id,
		Make:        in.Make,
		Model:       in.Model,
		Year:        in.Year,
		Price:       in.Price,
		Mileage:     in.Mileage,
		Description: in.Description,
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
