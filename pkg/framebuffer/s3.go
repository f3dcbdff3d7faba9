package framebuffer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// S3Sink uploads the rendered grid as a PNG object
type S3Sink struct {
	client    s3iface.S3API
	bucket    string
	keyPrefix string
	image     ImageConfig
	logger    core.Logger
	now       func() time.Time
}

// NewS3Client creates an S3 client. Static keys are used when both are set,
// otherwise the default AWS credential chain applies.
func NewS3Client(cfg config.S3Config) (s3iface.S3API, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// NewS3Sink creates a sink uploading to bucket under keyPrefix
func NewS3Sink(client s3iface.S3API, bucket, keyPrefix string, image ImageConfig, logger core.Logger) *S3Sink {
	return &S3Sink{
		client:    client,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		image:     image,
		logger:    logger,
		now:       time.Now,
	}
}

// Write encodes the grid and uploads it
func (s *S3Sink) Write(ctx context.Context, grid core.Grid) error {
	data, err := PNGBytes(grid, s.image)
	if err != nil {
		return err
	}

	key := s.keyPrefix + fmt.Sprintf("render_%s.png", s.now().Format("20060102_150405"))
	return s.upload(ctx, data, key)
}

func (s *S3Sink) upload(ctx context.Context, data []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if s.logger != nil {
		s.logger.Printf("Uploaded %s to s3://%s (%d bytes)", key, s.bucket, size)
	}
	return nil
}
