package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// WriteSubmission writes one gallery submission as multipart parts: the
// vehicle fields when given, the ordered metadata, the deletions, and one
// file part per new entry in metadata order. It does not close mw.
func WriteSubmission(mw *multipart.Writer, fields *models.VehicleFields, cs gallery.ChangeSet) error {
	if fields != nil {
		if err := writeFields(mw, fields); err != nil {
			return err
		}
	}

	metadata, err := gallery.EncodeMetadata(cs.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := mw.WriteField(gallery.FieldMetadata, string(metadata)); err != nil {
		return err
	}

	deletions, err := gallery.EncodeDeletions(cs.Deletions)
	if err != nil {
		return fmt.Errorf("encode deletions: %w", err)
	}
	if err := mw.WriteField(gallery.FieldDeletions, string(deletions)); err != nil {
		return err
	}

	for _, e := range cs.Metadata {
		if e.Origin != gallery.OriginNew {
			continue
		}
		b, ok := cs.Payloads[e.LocalID]
		if !ok {
			return fmt.Errorf("no binary for %s", e.LocalID)
		}
		if err := writePayload(mw, e.LocalID, b); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(mw *multipart.Writer, f *models.VehicleFields) error {
	values := []struct{ name, value string }{
		{gallery.FieldMake, f.Make},
		{gallery.FieldModel, f.Model},
		{gallery.FieldYear, strconv.Itoa(f.Year)},
		{gallery.FieldPrice, strconv.FormatInt(f.Price, 10)},
		{gallery.FieldMileage, strconv.Itoa(f.Mileage)},
		{gallery.FieldDescription, f.Description},
	}
	for _, v := range values {
		if err := mw.WriteField(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}

func writePayload(mw *multipart.Writer, localID string, b gallery.Binary) error {
	contentType := b.MimeHint()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(gallery.PayloadField(localID)), quoteEscaper.Replace(b.Name())))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	rc, err := b.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", b.Name(), err)
	}
	defer rc.Close()

	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("copy %s: %w", b.Name(), err)
	}
	return nil
}

// NewSubmissionBody streams a submission through a pipe so large binaries are
// never held in memory at once. It returns the body and its content type.
func NewSubmissionBody(fields *models.VehicleFields, cs gallery.ChangeSet) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := WriteSubmission(mw, fields, cs)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}
