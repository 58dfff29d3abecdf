package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"inventory-tracker/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the export bucket.
type StorageReport struct {
	Bucket       string   `json:"bucket"`
	BucketExists bool     `json:"bucket_exists"`
	Missing      []string `json:"missing"`
}

// OK reports whether nothing needs fixing.
func (r *StorageReport) OK() bool {
	return r.BucketExists && len(r.Missing) == 0
}

// CheckStorage verifies that the bucket exists and holds the export prefix.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists

	folder := strings.Trim(prefix, "/")
	if folder == "" {
		return report, nil
	}
	if !exists {
		report.Missing = append(report.Missing, folder)
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    folder + "/",
		Recursive: false,
		MaxKeys:   1,
	}
	found := false
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		found = true
		break
	}
	if !found {
		report.Missing = append(report.Missing, folder)
	}

	return report, nil
}

// FixStorage creates the bucket and the missing folders of report.
func FixStorage(ctx context.Context, client storage.Client, report *StorageReport, region string, logger *zap.Logger) error {
	if !report.BucketExists {
		if err := storage.EnsureBucket(ctx, client, report.Bucket, region); err != nil {
			return err
		}
		logger.Info("Created bucket", zap.String("bucket", report.Bucket))
		report.BucketExists = true
	}

	for _, folder := range report.Missing {
		_, err := client.PutObject(ctx, report.Bucket, folder+"/", bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	report.Missing = []string{}
	return nil
}
