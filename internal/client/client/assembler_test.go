package client

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	name, filename, contentType, body string
}

func readParts(t *testing.T, body io.Reader, contentType string) []part {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	r := multipart.NewReader(body, params["boundary"])
	var out []part
	for {
		p, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		out = append(out, part{p.FormName(), p.FileName(), p.Header.Get("Content-Type"), string(data)})
	}
}

func sampleChangeSet() gallery.ChangeSet {
	return gallery.ChangeSet{
		Metadata: []gallery.Entry{
			{Origin: gallery.OriginExisting, PersistedID: "r1", StorageKey: "k1", URL: "http://cdn/k1", OrderIndex: 1},
			{Origin: gallery.OriginNew, LocalID: "l2", OrderIndex: 2, IsFeatured: true},
			{Origin: gallery.OriginNew, LocalID: "l1", OrderIndex: 3},
		},
		Payloads: map[string]gallery.Binary{
			"l1": gallery.NewBytesBinary("front.jpg", "image/jpeg", []byte("one")),
			"l2": gallery.NewBytesBinary(`we"ird.png`, "", []byte("two")),
		},
		Deletions: []gallery.PendingDeletion{{PersistedID: "r9", StorageKey: "k9"}},
	}
}

func TestWriteSubmission_PartsInOrder(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := &models.VehicleFields{Make: "Mazda", Model: "3", Year: 2017, Price: 12000, Mileage: 88000, Description: "clean"}
	require.NoError(t, WriteSubmission(mw, fields, sampleChangeSet()))
	require.NoError(t, mw.Close())

	parts := readParts(t, &buf, mw.FormDataContentType())

	var names []string
	for _, p := range parts {
		names = append(names, p.name)
	}
	assert.Equal(t, []string{
		gallery.FieldMake, gallery.FieldModel, gallery.FieldYear, gallery.FieldPrice, gallery.FieldMileage, gallery.FieldDescription,
		gallery.FieldMetadata, gallery.FieldDeletions, "binary_l2", "binary_l1",
	}, names)

	assert.Equal(t, "2017", parts[2].body)
	assert.Equal(t, "12000", parts[3].body)

	metadata, err := gallery.DecodeMetadata([]byte(parts[6].body))
	require.NoError(t, err)
	assert.Equal(t, sampleChangeSet().Metadata, metadata)

	deletions, err := gallery.DecodeDeletions([]byte(parts[7].body))
	require.NoError(t, err)
	assert.Equal(t, sampleChangeSet().Deletions, deletions)

	assert.Equal(t, part{"binary_l2", `we"ird.png`, "application/octet-stream", "two"}, parts[8])
	assert.Equal(t, part{"binary_l1", "front.jpg", "image/jpeg", "one"}, parts[9])
}

func TestWriteSubmission_GalleryOnly(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, WriteSubmission(mw, nil, gallery.ChangeSet{}))
	require.NoError(t, mw.Close())

	parts := readParts(t, &buf, mw.FormDataContentType())
	require.Len(t, parts, 2)
	assert.Equal(t, part{name: gallery.FieldMetadata, body: "[]"}, parts[0])
	assert.Equal(t, part{name: gallery.FieldDeletions, body: "[]"}, parts[1])
}

func TestWriteSubmission_MissingPayload(t *testing.T) {
	cs := sampleChangeSet()
	delete(cs.Payloads, "l1")

	err := WriteSubmission(multipart.NewWriter(io.Discard), nil, cs)
	assert.ErrorContains(t, err, "no binary for l1")
}

type brokenBinary struct{}

func (brokenBinary) Name() string                 { return "broken.jpg" }
func (brokenBinary) MimeHint() string             { return "image/jpeg" }
func (brokenBinary) Open() (io.ReadCloser, error) { return nil, errors.New("gone") }

func TestNewSubmissionBody_PropagatesErrors(t *testing.T) {
	cs := gallery.ChangeSet{
		Metadata: []gallery.Entry{{Origin: gallery.OriginNew, LocalID: "l1", OrderIndex: 1}},
		Payloads: map[string]gallery.Binary{"l1": brokenBinary{}},
	}

	body, _ := NewSubmissionBody(nil, cs)
	defer body.Close()

	_, err := io.ReadAll(body)
	assert.ErrorContains(t, err, "gone")
}

func TestNewSubmissionBody_Streams(t *testing.T) {
	body, contentType := NewSubmissionBody(nil, sampleChangeSet())
	defer body.Close()

	parts := readParts(t, body, contentType)
	assert.Len(t, parts, 4)
}
