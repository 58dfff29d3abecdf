package checks

import (
	"context"
	"testing"

	"inventory-tracker/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Healthy", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inv").Return(true, nil)
		client.On("ListObjects", mock.Anything, "inv", minio.ListObjectsOptions{Prefix: "exports/", MaxKeys: 1}).
			Return(mocks.Listing(minio.ObjectInfo{Key: "exports/user-1/a.csv"}))

		report, err := CheckStorage(ctx, client, "inv", "/exports/")
		require.NoError(t, err)
		assert.True(t, report.OK())
	})

	t.Run("Missing Prefix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inv").Return(true, nil)
		client.On("ListObjects", mock.Anything, "inv", mock.Anything).Return(mocks.Listing())

		report, err := CheckStorage(ctx, client, "inv", "exports")
		require.NoError(t, err)
		assert.False(t, report.OK())
		assert.Equal(t, []string{"exports"}, report.Missing)
	})

	t.Run("Missing Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inv").Return(false, nil)

		report, err := CheckStorage(ctx, client, "inv", "exports")
		require.NoError(t, err)
		assert.False(t, report.BucketExists)
		assert.Equal(t, []string{"exports"}, report.Missing)
		client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("List Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inv").Return(true, nil)
		client.On("ListObjects", mock.Anything, "inv", mock.Anything).Return(mocks.Listing(minio.ObjectInfo{Err: assert.AnError}))

		_, err := CheckStorage(ctx, client, "inv", "exports")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Bucket Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inv").Return(false, assert.AnError)

		_, err := CheckStorage(ctx, client, "inv", "exports")
		assert.ErrorContains(t, err, "failed to check bucket existence")
	})
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inv").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "inv", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
	client.On("PutObject", mock.Anything, "inv", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	report := &StorageReport{Bucket: "inv", Missing: []string{"exports"}}
	require.NoError(t, FixStorage(context.Background(), client, report, "eu-west-1", zap.NewNop()))

	assert.True(t, report.OK())
	client.AssertExpectations(t)
}

func TestFixStorage_PutError(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "inv", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, assert.AnError)

	report := &StorageReport{Bucket: "inv", BucketExists: true, Missing: []string{"exports"}}
	err := FixStorage(context.Background(), client, report, "", zap.NewNop())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"exports"}, report.Missing)
}
