package framebuffer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/ascii-raytracer/pkg/config"
)

// MockS3 implements the PutObject call of s3iface.S3API for testing
type MockS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *MockS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	m.input = input
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("upload must carry a deadline")
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.body = body
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func TestS3Sink_Write(t *testing.T) {
	mock := &MockS3{}
	logger := &recordingLogger{}
	sink := NewS3Sink(mock, "renders-bucket", "ascii/", ImageConfig{PixelScale: 2, AspectScale: 1, Background: ' '}, logger)
	sink.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

	if err := sink.Write(context.Background(), sampleGrid()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if aws.StringValue(mock.input.Bucket) != "renders-bucket" {
		t.Errorf("Unexpected bucket %q", aws.StringValue(mock.input.Bucket))
	}
	if aws.StringValue(mock.input.Key) != "ascii/render_20240102_150405.png" {
		t.Errorf("Unexpected key %q", aws.StringValue(mock.input.Key))
	}
	if aws.StringValue(mock.input.ContentType) != "image/png" {
		t.Errorf("Unexpected content type %q", aws.StringValue(mock.input.ContentType))
	}
	if aws.Int64Value(mock.input.ContentLength) != int64(len(mock.body)) {
		t.Errorf("Content length %d does not match body %d", aws.Int64Value(mock.input.ContentLength), len(mock.body))
	}
	if !strings.HasPrefix(string(mock.body), "\x89PNG") {
		t.Error("Expected PNG body")
	}
	if len(logger.lines) != 1 {
		t.Errorf("Expected one log line, got %v", logger.lines)
	}
}

func TestS3Sink_UploadError(t *testing.T) {
	mock := &MockS3{err: errors.New("access denied")}
	sink := NewS3Sink(mock, "bucket", "", ImageConfig{PixelScale: 1, AspectScale: 1, Background: ' '}, nil)

	err := sink.Write(context.Background(), sampleGrid())
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(config.S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("Expected client")
	}
}
