// Package minio provides object storage for growth-engine checkpoints and
// compound-listing exports backed by MinIO.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/minio/minio-go/v7/pkg/tags"
	"github.com/dnaenc/edesigner/internal/config"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// MinIOAPI is the subset of the minio-go client this package depends on,
// isolated behind an interface so tests can substitute a fake.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	PutObjectTagging(ctx context.Context, bucketName, objectName string, ot *tags.Tags, opts minio.PutObjectTaggingOptions) error
	GetObjectTagging(ctx context.Context, bucketName, objectName string, opts minio.GetObjectTaggingOptions) (*tags.Tags, error)
}

// Object-key prefixes within the single checkpoint bucket. Checkpoints hold
// serialized growth-engine state (designs-in-memory snapshots); exports hold
// finished LibDesign listings written by the coalescer.
const (
	PrefixCheckpoints = "checkpoints/"
	PrefixExports     = "exports/"

	exportsLifecycleDays = 30
)

// Client wraps a MinIO connection scoped to a single bucket, matching the
// engine's storage config (one bucket, prefix-partitioned).
type Client struct {
	client MinIOAPI
	config *config.MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to MinIO, verifies connectivity, and ensures the
// configured bucket (and its lifecycle rules) exist.
func NewClient(cfg *config.MinIOConfig, log logging.Logger) (*Client, error) {
	rawClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := rawClient.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to connect to minio")
	}

	c := &Client{
		client: rawClient,
		config: cfg,
		logger: log,
	}

	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}
	if err := c.setupLifecycleRules(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to check bucket existence")
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrap(err, errors.CodeStorageError, fmt.Sprintf("failed to create bucket %s", c.config.Bucket))
		}
		c.logger.Info("created bucket", logging.String("bucket", c.config.Bucket))
	}
	return nil
}

// setupLifecycleRules expires exported listings after 30 days. Checkpoints
// are not auto-expired; the growth engine deletes its own stale checkpoints
// once superseded.
func (c *Client) setupLifecycleRules(ctx context.Context) error {
	exportsConfig := lifecycle.NewConfiguration()
	exportsConfig.Rules = []lifecycle.Rule{
		{
			ID:     "exports-cleanup",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: exportsLifecycleDays,
			},
			Prefix: PrefixExports,
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.config.Bucket, exportsConfig); err != nil {
		c.logger.Warn("failed to set lifecycle for exports prefix", logging.Err(err))
	}
	return nil
}

func (c *Client) GetClient() MinIOAPI {
	return c.client
}

func (c *Client) Bucket() string {
	return c.config.Bucket
}

var ErrClientClosed = errors.New(errors.CodeInternal, "minio client is closed")

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type HealthStatus struct {
	Healthy      bool
	Latency      time.Duration
	BucketExists bool
	Error        string
}

func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	_, err := c.client.ListBuckets(ctx)
	latency := time.Since(start)

	status := &HealthStatus{
		Healthy: err == nil,
		Latency: latency,
	}
	if err != nil {
		status.Error = err.Error()
		return status, err
	}

	exists, _ := c.client.BucketExists(ctx, c.config.Bucket)
	status.BucketExists = exists
	if !exists {
		status.Healthy = false
		status.Error = fmt.Sprintf("bucket %s missing", c.config.Bucket)
	}
	return status, nil
}

type PrefixStats struct {
	ObjectCount  int64
	TotalSize    int64
	LastModified time.Time
}

var ErrObjectNotFound = errors.New(errors.CodeNotFound, "object not found")

// GetPrefixStats aggregates object count and size under a key prefix (e.g.
// PrefixCheckpoints or PrefixExports).
func (c *Client) GetPrefixStats(ctx context.Context, prefix string) (*PrefixStats, error) {
	stats := &PrefixStats{}
	objects := c.client.ListObjects(ctx, c.config.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})

	for obj := range objects {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.CodeStorageError, "failed to list objects")
		}
		stats.ObjectCount++
		stats.TotalSize += obj.Size
		if obj.LastModified.After(stats.LastModified) {
			stats.LastModified = obj.LastModified
		}
	}
	return stats, nil
}

func (c *Client) GeneratePresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.client.PresignedGetObject(ctx, c.config.Bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "failed to presign get url")
	}
	return u.String(), nil
}

func (c *Client) GeneratePresignedPutURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.client.PresignedPutObject(ctx, c.config.Bucket, objectName, expiry)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "failed to presign put url")
	}
	return u.String(), nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
