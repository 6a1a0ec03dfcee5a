package checks

import (
	"context"
	"fmt"
	"strings"

	"npi-linker/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the configured bucket.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
	// References lists CSV objects found in the bucket, up to MaxListed.
	References []string `json:"references"`
}

// MaxListed caps the number of CSV objects reported.
const MaxListed = 50

// CheckStorage verifies the bucket exists and lists the CSV objects in it.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	report := &StorageReport{Bucket: bucket, References: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, obj.Err)
		}
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			report.References = append(report.References, obj.Key)
			if len(report.References) >= MaxListed {
				break
			}
		}
	}
	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if client == nil {
		return fmt.Errorf("storage is not configured")
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
