package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/reconcile"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/repositories/repomanager"
)

// Reconciler applies a validated change-set to a vehicle's gallery.
type Reconciler interface {
	Run(ctx context.Context, parentID string, cs gallery.ChangeSet) *reconcile.Report
}

// SubmissionResult is what a submission reports back: the vehicle as saved
// and the per-operation outcome of its gallery.
type SubmissionResult struct {
	Vehicle *models.Vehicle
	Report  *reconcile.Report
}

type GalleryService struct {
	vehicles   *VehicleService
	reconciler Reconciler
	log        logging.Logger
}

func NewGalleryService(vehicles *VehicleService, r Reconciler, log logging.Logger) *GalleryService {
	return &GalleryService{vehicles: vehicles, reconciler: r, log: log.With("module", "gallery")}
}

// Create saves a new vehicle and then reconciles its gallery. Field and
// change-set validation both happen before anything is written.
func (s *GalleryService) Create(ctx context.Context, in VehicleInput, cs gallery.ChangeSet) (*SubmissionResult, error) {
	if err := in.Validate(s.vehicles.now()); err != nil {
		return nil, err
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	v, err := s.vehicles.create(ctx, s.vehicles.db, in)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, v, cs), nil
}

// Update saves the fields of an existing vehicle and reconciles its gallery.
func (s *GalleryService) Update(ctx context.Context, id string, in VehicleInput, cs gallery.ChangeSet) (*SubmissionResult, error) {
	if err := in.Validate(s.vehicles.now()); err != nil {
		return nil, err
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	v, err := s.vehicles.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, v, cs), nil
}

// Submit reconciles the gallery of an existing vehicle without touching its
// fields.
func (s *GalleryService) Submit(ctx context.Context, id string, cs gallery.ChangeSet) (*SubmissionResult, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	v, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, v, cs), nil
}

func (s *GalleryService) reconcile(ctx context.Context, v *models.Vehicle, cs gallery.ChangeSet) *SubmissionResult {
	report := s.reconciler.Run(ctx, v.ID, cs)
	if err := report.Err(); err != nil {
		s.log.Warn(ctx, "gallery reconciled with failures", "vehicle_id", v.ID, "failures", len(report.Failures()))
	}
	if report.CoverUpdated {
		v.CoverImageURL = report.CoverURI
	}
	return &SubmissionResult{Vehicle: v, Report: report}
}

// MediaRows adapts the Postgres repositories to reconcile.MediaRows. Each
// call runs on its own connection; operations of one submission are
// independent and are not wrapped in a shared transaction.
type MediaRows struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMediaRows(db *sql.DB, rm repomanager.RepositoryManager) *MediaRows {
	return &MediaRows{db: db, repomanager: rm}
}

func (m *MediaRows) InsertMediaRow(ctx context.Context, parentID, storageKey string, orderIndex int, isFeatured bool) (string, error) {
	img, err := m.repomanager.Images(m.db).Insert(ctx, &models.VehicleImage{
		VehicleID:  parentID,
		StorageKey: storageKey,
		OrderIndex: orderIndex,
		IsFeatured: isFeatured,
	})
	if err != nil {
		return "", err
	}
	return img.ID, nil
}

func (m *MediaRows) UpdateMediaRow(ctx context.Context, parentID, id string, orderIndex int, isFeatured bool) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("image %q: %w", id, common.ErrorNotFound)
	}
	return m.repomanager.Images(m.db).UpdatePosition(ctx, parentID, id, orderIndex, isFeatured)
}

func (m *MediaRows) DeleteMediaRow(ctx context.Context, parentID, id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("image %q: %w", id, common.ErrorNotFound)
	}
	return m.repomanager.Images(m.db).Delete(ctx, parentID, id)
}

func (m *MediaRows) UpdateParentCoverImage(ctx context.Context, parentID, uri string) error {
	return m.repomanager.Vehicles(m.db).UpdateCoverImage(ctx, parentID, uri)
}
