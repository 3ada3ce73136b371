// Package blob uploads finished output files to S3-compatible object stores.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrNoBucket is returned when the destination bucket does not exist.
var ErrNoBucket = errors.New("s3: bucket not found")

// API is the subset of the S3 client used by the uploader.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ClientConfig configures an S3 client.
type ClientConfig struct {
	Region string

	// Endpoint is set for S3-compatible services (MinIO, LocalStack, R2).
	Endpoint     string
	UsePathStyle bool

	// Static credentials; the default chain is used when AccessKeyID is empty.
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient creates an S3 client.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// Location is a bucket/key pair.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string { return "s3://" + l.Bucket + "/" + l.Key }

// ParseURI parses "s3://bucket/key". A key ending in "/" is a prefix;
// ResolveKey appends a file name to it.
func ParseURI(uri string) (Location, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Location{}, fmt.Errorf("s3 uri %q: missing s3:// scheme", uri)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("s3 uri %q: empty bucket", uri)
	}
	if key == "" {
		return Location{}, fmt.Errorf("s3 uri %q: empty key", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// ResolveKey returns l with name appended when the key is a prefix.
func (l Location) ResolveKey(name string) Location {
	if strings.HasSuffix(l.Key, "/") {
		l.Key += name
	}
	return l
}

// Uploader puts files into an object store.
type Uploader struct {
	client API
}

// NewUploader wraps client.
func NewUploader(client API) *Uploader {
	return &Uploader{client: client}
}

// UploadFile streams the file at path to dst.
func (u *Uploader) UploadFile(ctx context.Context, path string, dst Location, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(dst.Bucket),
		Key:           aws.String(dst.Key),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		if isNoBucket(err) {
			return fmt.Errorf("%w: %s", ErrNoBucket, dst.Bucket)
		}
		return fmt.Errorf("s3: put object %s: %w", dst, err)
	}
	return nil
}

func isNoBucket(err error) bool {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchBucket"
	}
	return false
}
