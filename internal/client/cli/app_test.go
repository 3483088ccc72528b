package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/client"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/config"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/editor"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/models"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClient struct {
	client.Client

	mu        sync.Mutex
	pingErr   error
	vehicle   *models.Vehicle
	snaps     []gallery.Snapshot
	submitErr error
	result    *models.SubmissionResult

	calls     []string
	gotID     string
	gotFields models.VehicleFields
	gotCS     gallery.ChangeSet
	closed    bool
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeClient) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeClient) Vehicle(_ context.Context, id string) (*models.Vehicle, error) {
	f.calls = append(f.calls, "vehicle "+id)
	if f.vehicle == nil {
		return nil, common.ErrorNotFound
	}
	return f.vehicle, nil
}

func (f *fakeClient) Gallery(_ context.Context, id string) ([]gallery.Snapshot, error) {
	f.calls = append(f.calls, "gallery "+id)
	return f.snaps, nil
}

func (f *fakeClient) CreateVehicle(_ context.Context, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	f.calls = append(f.calls, "create")
	f.gotFields, f.gotCS = fields, cs
	return f.result, f.submitErr
}

func (f *fakeClient) UpdateVehicle(_ context.Context, id string, fields models.VehicleFields, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	f.calls = append(f.calls, "update "+id)
	f.gotID, f.gotFields, f.gotCS = id, fields, cs
	return f.result, f.submitErr
}

func (f *fakeClient) SubmitGallery(_ context.Context, id string, cs gallery.ChangeSet) (*models.SubmissionResult, error) {
	f.calls = append(f.calls, "submit "+id)
	f.gotID, f.gotCS = id, cs
	return f.result, f.submitErr
}

func photoFs(t *testing.T, names ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, n := range names {
		require.NoError(t, afero.WriteFile(fs, n, []byte("data of "+n), 0o644))
	}
	return fs
}

func execute(t *testing.T, fc *fakeClient, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	capturePrintln(t)

	orig := newClient
	newClient = func(*config.Config) (client.Client, error) { return fc, nil }
	t.Cleanup(func() { newClient = orig })

	a := NewApp()
	a.fs = fs
	cmd := a.Command()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	require.NoError(t, a.Close())
	return out.String(), err
}

func payloadName(t *testing.T, cs gallery.ChangeSet, e gallery.Entry) string {
	t.Helper()
	b, ok := cs.Payloads[e.LocalID]
	require.True(t, ok, "no payload for %s", e.LocalID)
	return b.Name()
}

func TestPing(t *testing.T) {
	fc := &fakeClient{}
	out, err := execute(t, fc, afero.NewMemMapFs(), "", "ping")
	require.NoError(t, err)
	assert.Equal(t, "server is online\n", out)
	assert.True(t, fc.closed)

	fc = &fakeClient{pingErr: client.ErrUnavailable}
	_, err = execute(t, fc, afero.NewMemMapFs(), "", "ping")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestNewClientError(t *testing.T) {
	orig := newClient
	newClient = func(*config.Config) (client.Client, error) { return nil, errBoom }
	t.Cleanup(func() { newClient = orig })

	a := NewApp()
	a.fs = afero.NewMemMapFs()
	cmd := a.Command()
	cmd.SetArgs([]string{"ping"})

	err := cmd.Execute()
	require.ErrorIs(t, err, errBoom)
	assert.NoError(t, a.Close())
}

func TestVehicleShow(t *testing.T) {
	fc := &fakeClient{vehicle: &models.Vehicle{ID: "v1", Make: "Seat", Model: "Ibiza", Year: 2015, Price: 7500}}

	out, err := execute(t, fc, afero.NewMemMapFs(), "", "vehicle", "show", "v1")
	require.NoError(t, err)
	assert.Contains(t, out, "make:        Seat\n")
	assert.Contains(t, out, "price:       7500\n")

	_, err = execute(t, &fakeClient{}, afero.NewMemMapFs(), "", "vehicle", "show", "v2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVehicleCreate(t *testing.T) {
	fc := &fakeClient{result: &models.SubmissionResult{VehicleID: "v1", Settled: true, CoverImageUpdated: true, CoverImageURL: "http://cdn/v1/b"}}
	fs := photoFs(t, "/photos/a.jpg", "/photos/b.jpg")

	out, err := execute(t, fc, fs, "", "vehicle", "create",
		"--make", "Seat", "--model", "Ibiza", "--year", "2015", "--price", "7500",
		"-I", "/photos/*.jpg", "--featured", "2")
	require.NoError(t, err)

	assert.Equal(t, models.VehicleFields{Make: "Seat", Model: "Ibiza", Year: 2015, Price: 7500}, fc.gotFields)
	require.Len(t, fc.gotCS.Metadata, 2)
	assert.Equal(t, "a.jpg", payloadName(t, fc.gotCS, fc.gotCS.Metadata[0]))
	assert.Equal(t, "b.jpg", payloadName(t, fc.gotCS, fc.gotCS.Metadata[1]))
	assert.False(t, fc.gotCS.Metadata[0].IsFeatured)
	assert.True(t, fc.gotCS.Metadata[1].IsFeatured)
	assert.Equal(t, 2, fc.gotCS.Metadata[1].OrderIndex)

	assert.Contains(t, out, "vehicle v1 settled\n")
	assert.Contains(t, out, "cover image: http://cdn/v1/b\n")
}

func TestVehicleCreate_Rejected(t *testing.T) {
	fc := &fakeClient{submitErr: &client.ValidationError{Fields: map[string]string{"make": "is required"}}}

	_, err := execute(t, fc, afero.NewMemMapFs(), "", "vehicle", "create", "--year", "2015")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorContains(t, err, "vehicle rejected, nothing was saved")
	assert.ErrorContains(t, err, "make: is required")
}

func TestVehicleCreate_BadInput(t *testing.T) {
	fc := &fakeClient{}

	_, err := execute(t, fc, afero.NewMemMapFs(), "", "vehicle", "create", "-I", "/photos/*.jpg")
	assert.ErrorContains(t, err, `no files match "/photos/*.jpg"`)

	_, err = execute(t, fc, photoFs(t, "/a.jpg"), "", "vehicle", "create", "-I", "/a.jpg", "--featured", "3")
	assert.ErrorContains(t, err, "no photo at position 3")
	assert.Empty(t, fc.calls)
}

func TestVehicleUpdate(t *testing.T) {
	fc := &fakeClient{
		vehicle: &models.Vehicle{ID: "v1", Make: "Seat", Model: "Ibiza", Year: 2015, Price: 7500, Mileage: 90000},
		snaps: []gallery.Snapshot{
			{ID: "r2", StorageKey: "k2", URL: "http://cdn/k2", OrderIndex: 2},
			{ID: "r1", StorageKey: "k1", URL: "http://cdn/k1", OrderIndex: 1, IsFeatured: true},
		},
		result: &models.SubmissionResult{
			VehicleID: "v1",
			Settled:   true,
			Failures:  []models.Failure{{Op: "remove-object", Item: "r1", Error: "access denied"}},
		},
	}
	fs := photoFs(t, "/photos/a.jpg")

	out, err := execute(t, fc, fs, "", "vehicle", "update", "v1",
		"--price", "6900", "--remove", "1", "-I", "/photos/a.jpg", "--featured", "2")
	require.NoError(t, err)

	assert.Equal(t, []string{"vehicle v1", "gallery v1", "update v1"}, fc.calls)
	assert.Equal(t, models.VehicleFields{Make: "Seat", Model: "Ibiza", Year: 2015, Price: 6900, Mileage: 90000}, fc.gotFields)
	assert.Equal(t, []gallery.PendingDeletion{{PersistedID: "r1", StorageKey: "k1"}}, fc.gotCS.Deletions)

	require.Len(t, fc.gotCS.Metadata, 2)
	assert.Equal(t, gallery.Entry{Origin: gallery.OriginExisting, PersistedID: "r2", StorageKey: "k2", URL: "http://cdn/k2", OrderIndex: 1}, fc.gotCS.Metadata[0])
	assert.Equal(t, gallery.OriginNew, fc.gotCS.Metadata[1].Origin)
	assert.True(t, fc.gotCS.Metadata[1].IsFeatured)

	assert.Contains(t, out, "1 operation(s) failed:\n")
	assert.Contains(t, out, "remove-object r1: access denied")
}

func TestVehicleUpdate_UnknownOutcome(t *testing.T) {
	fc := &fakeClient{vehicle: &models.Vehicle{ID: "v1"}, submitErr: client.ErrUnavailable}

	_, err := execute(t, fc, afero.NewMemMapFs(), "", "vehicle", "update", "v1", "--make", "Fiat")
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.ErrorContains(t, err, "the server may have applied part of it")
}

func TestGalleryList(t *testing.T) {
	fc := &fakeClient{snaps: []gallery.Snapshot{
		{ID: "r1", URL: "http://cdn/k1", OrderIndex: 1, IsFeatured: true},
		{ID: "r2", URL: "http://cdn/k2", OrderIndex: 2},
	}}

	out, err := execute(t, fc, afero.NewMemMapFs(), "", "gallery", "list", "v1")
	require.NoError(t, err)
	assert.Equal(t, "  1 * r1 http://cdn/k1\n  2   r2 http://cdn/k2\n", out)

	out, err = execute(t, &fakeClient{}, afero.NewMemMapFs(), "", "gallery", "list", "v1")
	require.NoError(t, err)
	assert.Equal(t, "no photos\n", out)
}

func TestGalleryEdit_Submit(t *testing.T) {
	fc := &fakeClient{
		snaps: []gallery.Snapshot{
			{ID: "r1", StorageKey: "k1", OrderIndex: 1, IsFeatured: true},
			{ID: "r2", StorageKey: "k2", OrderIndex: 2},
		},
		result: &models.SubmissionResult{VehicleID: "v1", Settled: true},
	}
	fs := photoFs(t, "/photos/c.jpg")

	stdin := strings.Join([]string{
		"add /photos/c.jpg",
		"feature 3",
		"move 3 1",
		"rm r1",
		"list",
		"submit",
		"list",
	}, "\n")
	out, err := execute(t, fc, fs, stdin, "gallery", "edit", "v1")
	require.NoError(t, err)

	assert.Equal(t, []string{"gallery v1", "submit v1"}, fc.calls)
	assert.Equal(t, []gallery.PendingDeletion{{PersistedID: "r1", StorageKey: "k1"}}, fc.gotCS.Deletions)
	require.Len(t, fc.gotCS.Metadata, 2)
	assert.Equal(t, gallery.OriginNew, fc.gotCS.Metadata[0].Origin)
	assert.True(t, fc.gotCS.Metadata[0].IsFeatured)
	assert.Equal(t, "r2", fc.gotCS.Metadata[1].PersistedID)
	assert.Equal(t, 2, fc.gotCS.Metadata[1].OrderIndex)

	assert.Contains(t, out, "added 1 photo(s)\n")
	assert.Contains(t, out, "vehicle v1 settled\n")
	assert.Equal(t, 1, strings.Count(out, "existing r2"), "the session ends after a settled submission")
}

func TestGalleryEdit_RejectedThenFixed(t *testing.T) {
	fc := &fakeClient{submitErr: common.ErrMalformedChangeSet, result: &models.SubmissionResult{VehicleID: "v1", Settled: true}}

	a := &App{client: fc, fs: afero.NewMemMapFs(), out: &bytes.Buffer{}, config: &config.Config{}}
	a.config.LoadDefaults()
	e := &galleryEditor{app: a, vehicleID: "v1", session: editor.NewSession(editor.NewCollection())}

	err := e.Submit(context.Background())
	require.ErrorIs(t, err, common.ErrMalformedChangeSet)
	assert.ErrorContains(t, err, "fix the gallery and submit again")
	assert.False(t, e.Done())
	assert.Equal(t, gallery.Collecting, e.session.State())

	fc.submitErr = nil
	require.NoError(t, e.Submit(context.Background()))
	assert.True(t, e.Done())
}

func TestGalleryEdit_UnknownOutcomeOnlyAbandons(t *testing.T) {
	fc := &fakeClient{submitErr: client.ErrUnavailable}

	a := &App{client: fc, fs: photoFs(t, "/a.jpg"), out: &bytes.Buffer{}, config: &config.Config{}}
	a.config.LoadDefaults()
	e := &galleryEditor{app: a, vehicleID: "v1", session: editor.NewSession(editor.NewCollection())}

	err := e.Submit(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.ErrorContains(t, err, "abandon and reload the gallery")
	assert.False(t, e.Done())

	assert.ErrorIs(t, e.Add(context.Background(), []string{"/a.jpg"}), common.ErrNotCollecting)
	assert.ErrorIs(t, e.Submit(context.Background()), common.ErrNotCollecting)

	require.NoError(t, e.Abandon(context.Background()))
	assert.True(t, e.Done())
	assert.Equal(t, gallery.Abandoned, e.session.State())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	fc := &fakeClient{}
	a := &App{client: fc}

	ctx, cancel := context.WithCancel(context.Background())
	var stopped atomic.Bool
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		stopped.Store(true)
	}()

	assert.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	fc.setPingErr(client.ErrUnavailable)
	assert.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	assert.Eventually(t, stopped.Load, time.Second, 5*time.Millisecond)
}

func TestResolveRef(t *testing.T) {
	items := []editor.MediaItem{
		&editor.ExistingItem{PersistedID: "r1"},
		&editor.NewItem{LocalID: "l1"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{ref: "1", want: "r1"},
		{ref: "2", want: "l1"},
		{ref: "l1", want: "l1"},
		{ref: "0", wantErr: "no photo at position 0"},
		{ref: "3", wantErr: "no photo at position 3"},
		{ref: "zz", wantErr: `unknown photo "zz"`},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveRef(items, tt.ref)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
