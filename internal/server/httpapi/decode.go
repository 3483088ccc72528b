package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/services"
)

// Parts up to this size stay in memory, larger ones spill to temp files.
const multipartMemory = 8 << 20

// parseMultipart reads the whole request body, capped at maxBytes.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	memory := int64(multipartMemory)
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		memory = min(memory, maxBytes)
	}
	if err := r.ParseMultipartForm(memory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return fmt.Errorf("%w: %v", common.ErrMalformedChangeSet, err)
	}
	return nil
}

// decodeChangeSet builds a change-set from a parsed multipart form. It does
// not validate the change-set's consistency.
func decodeChangeSet(form *multipart.Form) (gallery.ChangeSet, error) {
	metadata, err := gallery.DecodeMetadata([]byte(formValue(form, gallery.FieldMetadata)))
	if err != nil {
		return gallery.ChangeSet{}, err
	}
	deletions, err := gallery.DecodeDeletions([]byte(formValue(form, gallery.FieldDeletions)))
	if err != nil {
		return gallery.ChangeSet{}, err
	}

	payloads := make(map[string]gallery.Binary)
	for field, headers := range form.File {
		localID, ok := gallery.LocalIDFromField(field)
		if !ok {
			continue
		}
		if len(headers) != 1 {
			return gallery.ChangeSet{}, fmt.Errorf("%w: %d files in part %q", common.ErrMalformedChangeSet, len(headers), field)
		}
		b, err := readPart(headers[0])
		if err != nil {
			return gallery.ChangeSet{}, err
		}
		payloads[localID] = b
	}

	return gallery.ChangeSet{Metadata: metadata, Payloads: payloads, Deletions: deletions}, nil
}

func readPart(h *multipart.FileHeader) (*gallery.BytesBinary, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open part %q: %v", common.ErrMalformedChangeSet, h.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read part %q: %v", common.ErrMalformedChangeSet, h.Filename, err)
	}
	return gallery.NewBytesBinary(h.Filename, h.Header.Get("Content-Type"), data), nil
}

// decodeVehicle reads the vehicle fields. Numbers that do not parse are
// reported together with every other field Validate rejects, so one
// response lists all the problems of the form.
func decodeVehicle(form *multipart.Form, now time.Time) (services.VehicleInput, error) {
	in := services.VehicleInput{
		Make:        formValue(form, gallery.FieldMake),
		Model:       formValue(form, gallery.FieldModel),
		Description: formValue(form, gallery.FieldDescription),
	}
	fields := map[string]string{}

	if v, ok := parseInt(form, gallery.FieldYear, fields); ok {
		in.Year = int(v)
	}
	if v, ok := parseInt(form, gallery.FieldPrice, fields); ok {
		in.Price = v
	}
	if v, ok := parseInt(form, gallery.FieldMileage, fields); ok {
		in.Mileage = int(v)
	}

	if len(fields) == 0 {
		return in, nil
	}

	var invalid *services.ValidationError
	if err := in.Validate(now); errors.As(err, &invalid) {
		for name, msg := range invalid.Fields {
			if _, ok := fields[name]; !ok {
				fields[name] = msg
			}
		}
	}
	return in, &services.ValidationError{Fields: fields}
}

func parseInt(form *multipart.Form, name string, fields map[string]string) (int64, bool) {
	raw := strings.TrimSpace(formValue(form, name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fields[name] = "must be a whole number"
		return 0, false
	}
	return v, true
}

func formValue(form *multipart.Form, name string) string {
	if vs := form.Value[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
