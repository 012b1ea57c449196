// Package snapshot defines the interface for storing schema dumps in an
// object store. Providers implement Store; callers depend only on this
// package.
package snapshot

import (
	"context"
	"fmt"
	"time"
)

// Store is the contract all snapshot backends implement.
type Store interface {
	// Ping verifies the backend is reachable and the bucket exists.
	Ping(ctx context.Context) error

	// Put uploads a schema dump under key.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Stat returns metadata for the snapshot at key without downloading it.
	Stat(ctx context.Context, key string) (*Info, error)

	// List returns the snapshots whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Info, error)
}

// Info describes a stored snapshot.
type Info struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Config holds all settings needed to connect to a snapshot backend.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string // leave empty for MinIO
	UseSSL    bool
}

// Key derives the object key for a schema dump taken at ts.
func Key(server string, ts time.Time) string {
	return fmt.Sprintf("%s/%s/schema.yaml", server, ts.UTC().Format("2006-01-02T15-04-05Z"))
}
