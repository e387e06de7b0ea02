package vendors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// OSSConfig configures direct blob reads from an Aliyun OSS bucket
type OSSConfig struct {
	Region          string
	Bucket          string
	Prefix          string // prepended to every blob locator
	AccessKeyID     string
	AccessKeySecret string
}

// OSSBlobStore reads blob locators as object keys of one bucket.
// It replaces the autopilot blob gateway when the bucket is reachable directly.
type OSSBlobStore struct {
	client *oss.Client
	bucket string
	prefix string
}

// NewOSSBlobStore creates a blob store for cfg
func NewOSSBlobStore(cfg OSSConfig) (*OSSBlobStore, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("OSS bucket and region are required")
	}
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("OSS credentials not configured")
	}

	credProvider := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret)
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credProvider).
		WithRegion(cfg.Region)

	log.Info().
		Str("region", cfg.Region).
		Str("bucket", cfg.Bucket).
		Msg("OSS blob store initialized")

	return &OSSBlobStore{
		client: oss.NewClient(ossCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// FetchBlob downloads the object addressed by blobDir as text
func (s *OSSBlobStore) FetchBlob(ctx context.Context, blobDir string) (string, error) {
	key := objectKey(s.prefix, blobDir)

	result, err := s.client.GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(key),
	})
	if err != nil {
		upstream := &models.UpstreamError{URL: "oss://" + s.bucket + "/" + key, Kind: models.ErrUnreachable, Err: err}
		var serviceErr *oss.ServiceError
		if errors.As(err, &serviceErr) {
			upstream.StatusCode = serviceErr.StatusCode
		}
		return "", upstream
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return "", &models.UpstreamError{URL: "oss://" + s.bucket + "/" + key, Kind: models.ErrUnreachable, Err: err}
	}
	return string(data), nil
}

func objectKey(prefix, blobDir string) string {
	if prefix == "" {
		return path.Clean("/" + blobDir)[1:]
	}
	return path.Join(prefix, blobDir)
}
