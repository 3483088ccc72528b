package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// png signature followed by padding; enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type fakeS3 struct {
	s3API

	puts    []*s3.PutObjectInput
	bodies  [][]byte
	deletes []*s3.DeleteObjectInput
	putErr  error
	delErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.delErr != nil {
		return nil, f.delErr
	}
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

type brokenBinary struct{ gallery.Binary }

func (brokenBinary) Name() string                 { return "broken.jpg" }
func (brokenBinary) Open() (io.ReadCloser, error) { return nil, errors.New("gone") }

func withSeams(t *testing.T, client s3API, check func(lo awsconfig.LoadOptions, opts s3.Options)) {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if check != nil {
			check(lo, opts)
		}
		return client
	}
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	withSeams(t, &fakeS3{}, func(lo awsconfig.LoadOptions, opts s3.Options) {
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
	})

	store, err := NewS3Store(context.Background(), S3Config{
		Bucket: "media", Region: "us-east-1", AccessKey: "a", SecretKey: "s",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/media/vehicles/v1/k.jpg", store.URL("vehicles/v1/k.jpg"))
}

func TestNewS3Store_PublicBaseURLAndLoadError(t *testing.T) {
	withSeams(t, &fakeS3{}, nil)
	store, err := NewS3Store(context.Background(), S3Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/vehicles/v1/k", store.URL("vehicles/v1/k"))

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "media", publicURL: "https://cdn"}

	uri, err := store.Put(context.Background(), "vehicles/v1/01A", gallery.NewBytesBinary("a.png", "image/jpeg", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/vehicles/v1/01A", uri)

	require.Len(t, fake.puts, 1)
	in := fake.puts[0]
	assert.Equal(t, "media", aws.ToString(in.Bucket))
	assert.Equal(t, "vehicles/v1/01A", aws.ToString(in.Key))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType), "sniffed type wins over hint")
	assert.Equal(t, int64(len(pngBytes)), aws.ToInt64(in.ContentLength))
	assert.Equal(t, pngBytes, fake.bodies[0])
}

func TestS3Store_Put_FallsBackToHint(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "media", publicURL: "https://cdn"}

	_, err := store.Put(context.Background(), "k", gallery.NewBytesBinary("x.heic", "image/heic", []byte{0x00, 0x01, 0x02, 0xff}))
	require.NoError(t, err)
	assert.Equal(t, "image/heic", aws.ToString(fake.puts[0].ContentType))
}

func TestS3Store_Put_Errors(t *testing.T) {
	store := &S3Store{client: &fakeS3{putErr: errors.New("denied")}, bucket: "media"}

	_, err := store.Put(context.Background(), "k", gallery.NewBytesBinary("a", "", pngBytes))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")

	_, err = store.Put(context.Background(), "k", brokenBinary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open broken.jpg")
}

func TestS3Store_Remove(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "media"}

	require.NoError(t, store.Remove(context.Background(), "vehicles/v1/k"))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, "vehicles/v1/k", aws.ToString(fake.deletes[0].Key))

	fake.delErr = errors.New("denied")
	assert.Error(t, store.Remove(context.Background(), "vehicles/v1/k"))
}
