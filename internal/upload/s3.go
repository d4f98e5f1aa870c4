// Package upload publishes exported dataset files to an S3-compatible object store.
package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter is the subset of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures where files land.
type Options struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // set for MinIO and other S3-compatible stores
}

// Result is the outcome of one file upload.
type Result struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Bytes int64  `json:"bytes"`
	Error string `json:"error,omitempty"`
}

// Publisher uploads files under a fixed bucket and key prefix.
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// NewClient builds an S3 client from the default AWS credential chain.
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// NewPublisher returns a Publisher writing to bucket under prefix.
func NewPublisher(client ObjectPutter, bucket, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key for a local file.
func (p *Publisher) Key(localPath string) string {
	name := filepath.Base(localPath)
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads each file and reports a result per file. A failed upload does not
// stop the remaining ones.
func (p *Publisher) Publish(ctx context.Context, runID string, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, local := range paths {
		r := Result{Path: local, Key: p.Key(local)}
		n, err := p.put(ctx, runID, local, r.Key)
		r.Bytes = n
		if err != nil {
			r.Error = err.Error()
			p.logger.Error("upload failed",
				zap.String("path", local),
				zap.String("key", r.Key),
				zap.Error(err))
		} else {
			p.logger.Info("uploaded",
				zap.String("bucket", p.bucket),
				zap.String("key", r.Key),
				zap.Int64("bytes", n))
		}
		results = append(results, r)
	}
	return results
}

func (p *Publisher) put(ctx context.Context, runID, local, key string) (int64, error) {
	f, err := os.Open(local)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(local)),
		Metadata: map[string]string{
			"source":      "meetcorpus",
			"run-id":      runID,
			"exported-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload to s3://%s/%s: %w", p.bucket, key, err)
	}
	return info.Size(), nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
