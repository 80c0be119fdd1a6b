// Package archive uploads finished flight logs to S3-compatible object storage.
package archive

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/options"
)

// Provider stores flight logs.
type Provider interface {
	// CheckBucket makes sure the bucket exists, creating it if needed.
	CheckBucket(ctx context.Context) error
	// Upload stores the local file at objectKey.
	Upload(ctx context.Context, objectKey, file string) error
}

// ObjectKey is where a flight log is stored: flights/<flightID>/<file name>.
func ObjectKey(flightID, file string) string {
	return path.Join("flights", flightID, filepath.Base(file))
}

// Archive uploads the last-flight log of a recording.
type Archive struct {
	provider Provider
}

func New(provider Provider) *Archive {
	return &Archive{provider: provider}
}

// Store uploads file under the flight's key and returns the key.
func (a *Archive) Store(ctx context.Context, flightID, file string) (string, error) {
	if err := a.provider.CheckBucket(ctx); err != nil {
		return "", fmt.Errorf("failed to connect to object storage: %w", err)
	}

	key := ObjectKey(flightID, file)
	if err := a.provider.Upload(ctx, key, file); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file, err)
	}

	log.Info("Flight log archived", "flightID", flightID, "key", key)
	return key, nil
}

type minioProvider struct {
	client     *minio.Client
	bucketName string
	region     string
}

// NewMinIOProvider creates a Provider backed by any S3-compatible service.
func NewMinIOProvider(opts *options.S3Options) (Provider, error) {
	transport, err := minio.DefaultTransport(opts.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 transport: %w", err)
	}
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:    opts.UseSSL,
		Region:    opts.Region,
		Transport: http.RoundTripper(transport),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioProvider{
		client:     client,
		bucketName: opts.BucketName,
		region:     opts.Region,
	}, nil
}

func (p *minioProvider) CheckBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", p.bucketName)
		if err := p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (p *minioProvider) Upload(ctx context.Context, objectKey, file string) error {
	info, err := p.client.FPutObject(ctx, p.bucketName, objectKey, file, minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return err
	}
	log.Debug("Uploaded object", "bucket", info.Bucket, "key", info.Key, "size", info.Size)
	return nil
}
