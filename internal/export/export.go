// Package export stores ledger snapshots on the local filesystem or in an S3 bucket.
package export

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
)

// Writer stores one named object and returns where it was written.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) (location string, err error)
}

// New returns an S3 writer when a bucket is configured, a file writer otherwise.
func New(ctx context.Context, conf config.ExportConfig) (Writer, error) {
	if conf.S3.Bucket != "" {
		w, err := NewS3Writer(ctx, conf.S3)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return w, nil
	}
	return NewFileWriter(conf.Dir)
}

type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) (*FileWriter, error) {
	if dir == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "export directory is required")
	}
	return &FileWriter{dir: dir}, nil
}

func (w *FileWriter) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create export directory")
	}
	location := filepath.Join(w.dir, name)
	if err := os.WriteFile(location, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", location)
	}
	logger.DebugContext(ctx, "Exported file", slogx.String("location", location), slogx.Int("bytes", len(data)))
	return location, nil
}

type S3Writer struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Writer(ctx context.Context, conf config.S3Config) (*S3Writer, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if conf.Region != "" {
			o.Region = conf.Region
		}
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		if conf.AccessKeyID != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, "")
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	return &S3Writer{
		uploader: manager.NewUploader(client),
		bucket:   conf.Bucket,
		prefix:   strings.Trim(conf.Prefix, "/"),
	}, nil
}

func (w *S3Writer) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(w.prefix, name)
	result, err := w.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload s3://%s/%s", w.bucket, key)
	}
	logger.DebugContext(ctx, "Uploaded file", slogx.String("location", result.Location), slogx.Int("bytes", len(data)))
	return "s3://" + w.bucket + "/" + key, nil
}
