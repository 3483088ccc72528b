package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/netx"
)

// ValidationError carries the field errors the server rejected a vehicle
// with. It matches common.ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: netx.NewHTTPClient(timeout)}
}

func (c *HTTPClient) Vehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := c.getJSON(ctx, "/api/vehicles/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Gallery fetches the persisted images the editor seeds its collection from.
func (c *HTTPClient) Gallery(ctx context.Context, id string) ([]gallery.Snapshot, error) {
	var out []gallery.Snapshot
	if err := c.getJSON(ctx, "/api/vehicles/"+url.PathEscape(id)+"/gallery", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateVehicle(ctx context.Context, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	return c.submit(ctx, http.MethodPost, "/api/vehicles", &fields, cs)
}

func (c *HTTPClient) UpdateVehicle(ctx context.Context, id string, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	return c.submit(ctx, http.MethodPut, "/api/vehicles/"+url.PathEscape(id), &fields, cs)
}

func (c *HTTPClient) SubmitGallery(ctx context.Context, id string, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	return c.submit(ctx, http.MethodPost, "/api/vehicles/"+url.PathEscape(id)+"/gallery", nil, cs)
}

func (c *HTTPClient) submit(ctx context.Context, method, path string, fields *models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	body, contentType := NewSubmissionBody(fields, cs)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		body.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var res models.SubmissionResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := netx.CheckResponse(resp); err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError turns a failed response into the sentinel the editor acts on.
// Rejections that happen before reconciliation (422, 400, 413) are
// recoverable; anything else leaves the submission's outcome unknown.
func (c *HTTPClient) mapError(err error) error {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(se.Body, &body)

	switch se.Code {
	case http.StatusUnprocessableEntity:
		return &ValidationError{Fields: body.Errors}
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		msg := strings.TrimPrefix(body.Error, common.ErrMalformedChangeSet.Error()+": ")
		if msg == "" {
			msg = se.Status
		}
		return fmt.Errorf("%w: %s", common.ErrMalformedChangeSet, msg)
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, se.Status)
	default:
		return fmt.Errorf("http error: %w", err)
	}
}
