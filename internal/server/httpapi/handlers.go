// Package httpapi is the HTTP surface of the server. Submissions arrive as
// multipart forms carrying the vehicle fields, the ordered gallery metadata,
// the pending deletions and one file part per new photo.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/services"
)

type vehicleService interface {
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Gallery(ctx context.Context, id string) ([]gallery.Snapshot, error)
}

type galleryService interface {
	Create(ctx context.Context, in services.VehicleInput, cs gallery.ChangeSet) (*services.SubmissionResult, error)
	Update(ctx context.Context, id string, in services.VehicleInput, cs gallery.ChangeSet) (*services.SubmissionResult, error)
	Submit(ctx context.Context, id string, cs gallery.ChangeSet) (*services.SubmissionResult, error)
}

var (
	_ vehicleService = (*services.VehicleService)(nil)
	_ galleryService = (*services.GalleryService)(nil)
)

type VehiclesHandler struct {
	Vehicles       vehicleService
	Gallery        galleryService
	MaxUploadBytes int64
	log            logging.Logger
}

func NewVehiclesHandler(vehicles vehicleService, galleries galleryService, maxUploadBytes int64, log logging.Logger) *VehiclesHandler {
	return &VehiclesHandler{
		Vehicles:       vehicles,
		Gallery:        galleries,
		MaxUploadBytes: maxUploadBytes,
		log:            log.With("module", "httpapi"),
	}
}

func (h *VehiclesHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vehicles.Get(r.Context(), vehicleID(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehiclesHandler) ListGallery(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.Vehicles.Gallery(r.Context(), vehicleID(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if snapshots == nil {
		snapshots = []gallery.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (h *VehiclesHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, cs, err := h.decodeSubmission(w, r, true)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	res, err := h.Gallery.Create(r.Context(), in, cs)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSubmissionResponse(res))
}

func (h *VehiclesHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, cs, err := h.decodeSubmission(w, r, true)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	res, err := h.Gallery.Update(r.Context(), vehicleID(r), in, cs)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(res))
}

func (h *VehiclesHandler) SubmitGallery(w http.ResponseWriter, r *http.Request) {
	_, cs, err := h.decodeSubmission(w, r, false)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	res, err := h.Gallery.Submit(r.Context(), vehicleID(r), cs)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(res))
}

func (h *VehiclesHandler) decodeSubmission(w http.ResponseWriter, r *http.Request, withFields bool) (services.VehicleInput, gallery.ChangeSet, error) {
	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		return services.VehicleInput{}, gallery.ChangeSet{}, err
	}
	defer r.MultipartForm.RemoveAll()

	var in services.VehicleInput
	if withFields {
		var err error
		if in, err = decodeVehicle(r.MultipartForm, time.Now()); err != nil {
			return in, gallery.ChangeSet{}, err
		}
	}

	cs, err := decodeChangeSet(r.MultipartForm)
	if err != nil {
		return in, gallery.ChangeSet{}, err
	}
	return in, cs, nil
}

func vehicleID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["id"])
}
