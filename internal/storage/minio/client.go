// Package minio persists the session record as objects in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

const (
	contentType    = "text/plain; charset=utf-8"
	codeNoSuchKey  = "NoSuchKey"
	defaultPrefix  = "session/"
	maxObjectBytes = 1 << 20
)

// minioAPI is the subset of *minio.Client in use, so tests can run without a server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

var _ model.KeyValueStore = (*Client)(nil)

// Client stores each key as the object <prefix><key>.
type Client struct {
	api    minioAPI
	bucket string
	prefix string
}

// Options describe how to reach the bucket.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// New connects to the endpoint in opts and ensures the bucket exists.
func New(ctx context.Context, opts Options) (*Client, error) {
	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewClientWithAPI(ctx, minioClientWrapper{c: mc}, opts.Bucket, opts.Prefix)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, prefix string) (*Client, error) {
	if prefix == "" {
		prefix = defaultPrefix
	}

	c := &Client{
		api:    api,
		bucket: bucket,
		prefix: prefix,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (c *Client) object(key string) string {
	return c.prefix + key
}

// Get returns the value for key or model.ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, c.object(key), minio.GetObjectOptions{})
	if err != nil {
		return "", c.readError(key, err)
	}
	defer obj.Close()

	// the object is fetched lazily, so a missing key surfaces on read
	data, err := io.ReadAll(io.LimitReader(obj, maxObjectBytes))
	if err != nil {
		return "", c.readError(key, err)
	}

	return string(data), nil
}

func (c *Client) readError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return model.ErrNotFound
	}
	return fmt.Errorf("failed to get object %s: %w", key, err)
}

// Set uploads value as the object for key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	_, err := c.api.PutObject(ctx, c.bucket, c.object(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object for key. Removing a missing object succeeds.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.api.RemoveObject(ctx, c.bucket, c.object(key), minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != codeNoSuchKey {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
