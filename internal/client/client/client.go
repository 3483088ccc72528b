package client

import (
	"context"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Vehicle(ctx context.Context, id string) (*models.Vehicle, error)
	Gallery(ctx context.Context, id string) ([]gallery.Snapshot, error)
	CreateVehicle(ctx context.Context, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error)
	UpdateVehicle(ctx context.Context, id string, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error)
	SubmitGallery(ctx context.Context, id string, cs gallery.ChangeSet) (*models.SubmissionResult, error)
}

// Remote is the Client used by the editor: the HTTP API for data and the
// gRPC health endpoint for reachability.
type Remote struct {
	*HTTPClient
	*GRPCClient
}

var _ Client = (*Remote)(nil)

func NewRemote(apiURL, grpcAddr string, timeout time.Duration) (*Remote, error) {
	g, err := NewGRPCClient(grpcAddr)
	if err != nil {
		return nil, err
	}
	return &Remote{HTTPClient: NewHTTPClient(apiURL, timeout), GRPCClient: g}, nil
}
