// Package minio provides a MinIO implementation of snapshot.Store.
package minio

import (
	"bytes"
	"context"
	"errors"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/corbelan/sqlany/internal/errs"
	"github.com/corbelan/sqlany/internal/snapshot"
)

// Driver is a MinIO implementation of snapshot.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

// New connects to the object store using the provided Config and returns
// a Driver. It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *snapshot.Config) (*Driver, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client, bucket: cfg.Bucket}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// --- snapshot.Store implementation ---

// Ping verifies the server is reachable and the configured bucket exists.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return mapError(err, "ping failed")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket does not exist: "+d.bucket)
	}
	return nil
}

// Put uploads a schema dump under key.
func (d *Driver) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := d.client.PutObject(ctx, d.bucket, key, bytes.NewReader(body), int64(len(body)),
		miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapError(err, "failed to upload snapshot")
	}
	return nil
}

// Stat returns metadata for the snapshot at key.
func (d *Driver) Stat(ctx context.Context, key string) (*snapshot.Info, error) {
	raw, err := d.client.StatObject(ctx, d.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to stat snapshot")
	}
	return &snapshot.Info{
		Key:          raw.Key,
		Size:         raw.Size,
		ETag:         raw.ETag,
		LastModified: raw.LastModified,
	}, nil
}

// List returns the snapshots whose key starts with prefix.
func (d *Driver) List(ctx context.Context, prefix string) ([]snapshot.Info, error) {
	opts := miniogo.ListObjectsOptions{Prefix: prefix, Recursive: true}

	var results []snapshot.Info
	for obj := range d.client.ListObjects(ctx, d.bucket, opts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list snapshots")
		}
		results = append(results, snapshot.Info{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	return results, nil
}

// --- error mapping ---

// mapError translates minio-go errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	resp := miniogo.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	default:
		return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
	}
}
