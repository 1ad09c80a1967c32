package minio

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/minio/minio-go/v7/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/dnaenc/edesigner/internal/config"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

type MockMinIO struct {
	mock.Mock
}

func (m *MockMinIO) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}
func (m *MockMinIO) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}
func (m *MockMinIO) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}
func (m *MockMinIO) SetBucketLifecycle(ctx context.Context, bucketName string, cfg *lifecycle.Configuration) error {
	return m.Called(ctx, bucketName, cfg).Error(0)
}
func (m *MockMinIO) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	return args.Get(0).(<-chan minio.ObjectInfo)
}
func (m *MockMinIO) PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expiry, reqParams)
	return args.Get(0).(*url.URL), args.Error(1)
}
func (m *MockMinIO) PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.Get(0).(*url.URL), args.Error(1)
}
func (m *MockMinIO) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}
func (m *MockMinIO) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(*minio.Object), args.Error(1)
}
func (m *MockMinIO) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}
func (m *MockMinIO) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	args := m.Called(ctx, bucketName, objectsCh, opts)
	return args.Get(0).(<-chan minio.RemoveObjectError)
}
func (m *MockMinIO) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}
func (m *MockMinIO) CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, dst, src)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}
func (m *MockMinIO) PutObjectTagging(ctx context.Context, bucketName, objectName string, ot *tags.Tags, opts minio.PutObjectTaggingOptions) error {
	return m.Called(ctx, bucketName, objectName, ot, opts).Error(0)
}
func (m *MockMinIO) GetObjectTagging(ctx context.Context, bucketName, objectName string, opts minio.GetObjectTaggingOptions) (*tags.Tags, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(*tags.Tags), args.Error(1)
}

func TestEnsureBucket_Missing(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints", Region: "us-east-1"},
		logger: logging.NewNopLogger(),
	}

	mockMinio.On("BucketExists", mock.Anything, "edesigner-checkpoints").Return(false, nil)
	mockMinio.On("MakeBucket", mock.Anything, "edesigner-checkpoints", mock.Anything).Return(nil)

	err := client.ensureBucket(context.Background())
	assert.NoError(t, err)
	mockMinio.AssertNumberOfCalls(t, "MakeBucket", 1)
}

func TestEnsureBucket_AlreadyExists(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"},
		logger: logging.NewNopLogger(),
	}

	mockMinio.On("BucketExists", mock.Anything, "edesigner-checkpoints").Return(true, nil)

	err := client.ensureBucket(context.Background())
	assert.NoError(t, err)
	mockMinio.AssertNumberOfCalls(t, "MakeBucket", 0)
}

func TestClient_Close(t *testing.T) {
	client := &Client{}
	err := client.Close()
	assert.NoError(t, err)
	assert.True(t, client.closed)
}

func TestClient_GetClient(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{client: mockMinio}

	result := client.GetClient()
	assert.Equal(t, mockMinio, result)
}

func TestClient_Bucket(t *testing.T) {
	client := &Client{config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"}}
	assert.Equal(t, "edesigner-checkpoints", client.Bucket())
}

func TestClient_HealthCheck_Healthy(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"},
		logger: logging.NewNopLogger(),
	}

	mockMinio.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	mockMinio.On("BucketExists", mock.Anything, "edesigner-checkpoints").Return(true, nil)

	status, err := client.HealthCheck(context.Background())

	assert.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.NotZero(t, status.Latency)
	assert.Empty(t, status.Error)
	assert.True(t, status.BucketExists)
}

func TestClient_HealthCheck_MissingBucket(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"},
		logger: logging.NewNopLogger(),
	}

	mockMinio.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	mockMinio.On("BucketExists", mock.Anything, "edesigner-checkpoints").Return(false, nil)

	status, err := client.HealthCheck(context.Background())

	assert.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Error, "bucket")
}

func TestClient_GetPrefixStats_Success(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"},
		logger: logging.NewNopLogger(),
	}

	objCh := make(chan minio.ObjectInfo, 2)
	objCh <- minio.ObjectInfo{Size: 1000, LastModified: time.Now()}
	objCh <- minio.ObjectInfo{Size: 2000, LastModified: time.Now().Add(time.Hour)}
	close(objCh)

	mockMinio.On("ListObjects", mock.Anything, "edesigner-checkpoints", mock.Anything).Return((<-chan minio.ObjectInfo)(objCh))

	stats, err := client.GetPrefixStats(context.Background(), PrefixCheckpoints)

	assert.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.ObjectCount)
	assert.Equal(t, int64(3000), stats.TotalSize)
}

func TestClient_GeneratePresignedGetURL(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints", PresignExpiry: 1 * time.Hour},
		logger: logging.NewNopLogger(),
	}

	expectedURL, _ := url.Parse("https://minio.example.com/bucket/object?signed=true")
	mockMinio.On("PresignedGetObject", mock.Anything, "edesigner-checkpoints", "object", 1*time.Hour, mock.Anything).Return(expectedURL, nil)

	resultURL, err := client.GeneratePresignedGetURL(context.Background(), "object", 0)

	assert.NoError(t, err)
	assert.Equal(t, expectedURL.String(), resultURL)
}

func TestClient_GeneratePresignedGetURL_CustomExpiry(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints", PresignExpiry: 1 * time.Hour},
		logger: logging.NewNopLogger(),
	}

	expectedURL, _ := url.Parse("https://minio.example.com/bucket/object?signed=true")
	customExpiry := 30 * time.Minute
	mockMinio.On("PresignedGetObject", mock.Anything, "edesigner-checkpoints", "object", customExpiry, mock.Anything).Return(expectedURL, nil)

	resultURL, err := client.GeneratePresignedGetURL(context.Background(), "object", customExpiry)

	assert.NoError(t, err)
	assert.Equal(t, expectedURL.String(), resultURL)
}

func TestClient_GeneratePresignedPutURL(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints", PresignExpiry: 1 * time.Hour},
		logger: logging.NewNopLogger(),
	}

	expectedURL, _ := url.Parse("https://minio.example.com/bucket/object?upload=true")
	mockMinio.On("PresignedPutObject", mock.Anything, "edesigner-checkpoints", "object", 1*time.Hour).Return(expectedURL, nil)

	resultURL, err := client.GeneratePresignedPutURL(context.Background(), "object", 0)

	assert.NoError(t, err)
	assert.Equal(t, expectedURL.String(), resultURL)
}

func TestClient_SetupLifecycleRules(t *testing.T) {
	mockMinio := new(MockMinIO)
	client := &Client{
		client: mockMinio,
		config: &config.MinIOConfig{Bucket: "edesigner-checkpoints"},
		logger: logging.NewNopLogger(),
	}

	mockMinio.On("SetBucketLifecycle", mock.Anything, "edesigner-checkpoints", mock.Anything).Return(nil)

	err := client.setupLifecycleRules(context.Background())

	assert.NoError(t, err)
	mockMinio.AssertExpectations(t)
}

func TestHealthStatus(t *testing.T) {
	status := &HealthStatus{
		Healthy:      true,
		Latency:      100 * time.Millisecond,
		BucketExists: true,
	}

	assert.True(t, status.Healthy)
	assert.Equal(t, 100*time.Millisecond, status.Latency)
	assert.True(t, status.BucketExists)
}

func TestPrefixStats(t *testing.T) {
	now := time.Now()
	stats := &PrefixStats{
		ObjectCount:  10,
		TotalSize:    1024 * 1024,
		LastModified: now,
	}

	assert.Equal(t, int64(10), stats.ObjectCount)
	assert.Equal(t, int64(1024*1024), stats.TotalSize)
	assert.Equal(t, now, stats.LastModified)
}

func TestErrClientClosed(t *testing.T) {
	assert.Error(t, ErrClientClosed)
	assert.Contains(t, ErrClientClosed.Error(), "closed")
}

func TestErrObjectNotFound(t *testing.T) {
	assert.Error(t, ErrObjectNotFound)
	assert.Contains(t, ErrObjectNotFound.Error(), "not found")
}
