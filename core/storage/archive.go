package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// ErrInvalidKey is returned for export keys outside the archive prefix.
var ErrInvalidKey = errors.New("invalid export key")

// exportLayout names snapshots so that keys sort chronologically.
const exportLayout = "20060102T150405Z"

// Export describes one stored CSV snapshot.
type Export struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive keeps CSV exports under <prefix>/<owner>/<timestamp>.csv.
type Archive struct {
	client Client
	bucket string
	region string
	prefix string
	now    func() time.Time
}

// NewArchive creates an archive over the configured bucket.
func NewArchive(client Client, cfg Config) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.ExportPrefix, "/"),
		now:    time.Now,
	}
}

// Bucket returns the bucket name.
func (a *Archive) Bucket() string {
	return a.bucket
}

// Ensure creates the bucket if needed.
func (a *Archive) Ensure(ctx context.Context) error {
	return EnsureBucket(ctx, a.client, a.bucket, a.region)
}

func (a *Archive) ownerPrefix(owner string) string {
	return path.Join(a.prefix, owner) + "/"
}

// Put uploads a snapshot for owner and returns its key.
func (a *Archive) Put(ctx context.Context, owner string, data []byte) (string, error) {
	if owner == "" {
		return "", fmt.Errorf("%w: owner is required", ErrInvalidKey)
	}
	key := a.ownerPrefix(owner) + a.now().UTC().Format(exportLayout) + ".csv"

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	return key, nil
}

// List returns the owner's snapshots, newest first.
func (a *Archive) List(ctx context.Context, owner string) ([]Export, error) {
	var out []Export
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.ownerPrefix(owner)}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".csv") {
			continue
		}
		out = append(out, Export{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key > out[j].Key
	})
	return out, nil
}

// Fetch downloads one snapshot.
func (a *Archive) Fetch(ctx context.Context, key string) ([]byte, error) {
	if a.prefix != "" && !strings.HasPrefix(key, a.prefix+"/") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", key, err)
	}
	return data, nil
}

// Prune removes all but the newest keep snapshots of owner and returns the
// removed keys. keep <= 0 removes nothing.
func (a *Archive) Prune(ctx context.Context, owner string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	exports, err := a.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(exports) <= keep {
		return nil, nil
	}

	var removed []string
	for _, e := range exports[keep:] {
		if err := a.client.RemoveObject(ctx, a.bucket, e.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove export %s: %w", e.Key, err)
		}
		removed = append(removed, e.Key)
	}
	return removed, nil
}
