// Package objectstore holds the object stores gallery binaries are written
// to: S3 (or any S3-compatible backend such as MinIO) and a local directory.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/gallery"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config describes the bucket and how to reach it.
type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	// PublicBaseURL is the prefix of the URLs handed out for stored objects.
	// When empty, BaseEndpoint/Bucket is used.
	PublicBaseURL string
}

type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	public := c.PublicBaseURL
	if public == "" {
		public = joinURL(c.BaseEndpoint, c.Bucket)
	}

	return &S3Store{client: client, bucket: c.Bucket, publicURL: public}, nil
}

// Put uploads the binary under path and returns its public URL. The content
// type comes from the bytes, falling back to the client's hint.
func (s *S3Store) Put(ctx context.Context, path string, b gallery.Binary) (string, error) {
	data, err := readBinary(b)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(data, b.MimeHint())),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", path, err)
	}

	return s.URL(path), nil
}

// Remove deletes the object at path. Deleting a missing key succeeds.
func (s *S3Store) Remove(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}

func (s *S3Store) URL(path string) string {
	return joinURL(s.publicURL, path)
}

func readBinary(b gallery.Binary) ([]byte, error) {
	rc, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", b.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Name(), err)
	}
	return data, nil
}

func contentType(data []byte, hint string) string {
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") && hint != "" {
		return hint
	}
	return detected.String()
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}
