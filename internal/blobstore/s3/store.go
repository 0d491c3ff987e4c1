// Package s3 is an S3-compatible blobstore.Backend, used against MinIO for
// local development when no Walrus publisher is reachable. Blob ids are the
// object keys.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

// API is the subset of *s3.Client the store uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds bucket location and static credentials.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Store implements blobstore.Backend on top of an S3 bucket.
type Store struct {
	api      API
	bucket   string
	endpoint string
}

var _ blobstore.Backend = (*Store)(nil)

// New builds an S3 client from cfg with path-style addressing.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return NewWithAPI(client, cfg), nil
}

// NewWithAPI wraps an existing client.
func NewWithAPI(api API, cfg Config) *Store {
	return &Store{api: api, bucket: cfg.Bucket, endpoint: strings.TrimRight(cfg.BaseEndpoint, "/")}
}

// StorageKey returns a fresh, date-partitioned object key.
func StorageKey() string {
	d := now()
	return fmt.Sprintf("blobs/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Store) Publish(ctx context.Context, body []byte, contentType string) (*blobstore.PublishResult, error) {
	key := StorageKey()

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	out, err := s.api.PutObject(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 put %s: %w", common.ErrTransport, key, err)
	}

	return &blobstore.PublishResult{
		BlobID: key,
		SuiRef: strings.Trim(aws.ToString(out.ETag), `"`),
		Status: blobstore.StatusNewlyCreated,
	}, nil
}

func (s *Store) Fetch(ctx context.Context, blobID string) (*blobstore.Blob, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3 get %s: %w", common.ErrTransport, blobID, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 read %s: %w", common.ErrTransport, blobID, err)
	}

	return &blobstore.Blob{Data: data, ContentType: aws.ToString(out.ContentType)}, nil
}

// BlobURL is the path-style object URL; it is only readable if the bucket
// allows anonymous GET.
func (s *Store) BlobURL(blobID string) string {
	return s.endpoint + "/" + s.bucket + "/" + blobID
}
