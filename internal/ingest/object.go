package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectScheme = "s3"

// ObjectStoreConfig points at an S3-compatible endpoint.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ObjectFetcher opens datasets and reference files stored in buckets.
type ObjectFetcher struct {
	client *minio.Client
}

func NewObjectFetcher(cfg ObjectStoreConfig) (*ObjectFetcher, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("ingest: empty object store endpoint")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: object store client: %w", err)
	}
	return &ObjectFetcher{client: client}, nil
}

// IsObjectURI reports whether location uses the s3:// scheme.
func IsObjectURI(location string) bool {
	return strings.HasPrefix(location, objectScheme+"://")
}

// ParseObjectURI splits "s3://bucket/path/to/key" into bucket and key.
func ParseObjectURI(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != objectScheme || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidObjectURI, location)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidObjectURI, location)
	}
	return u.Host, key, nil
}

// Open streams an object. The caller closes the reader.
func (f *ObjectFetcher) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if f == nil || f.client == nil {
		return nil, errors.New("ingest: nil object fetcher")
	}
	bucket, key, err := ParseObjectURI(location)
	if err != nil {
		return nil, err
	}
	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("ingest: get %s: %w", location, err)
	}
	return obj, nil
}
