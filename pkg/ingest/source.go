package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/exp/mmap"
)

const s3Scheme = "s3://"

var (
	// ErrNoS3Client is returned when an s3:// location is opened without a
	// configured client.
	ErrNoS3Client = errors.New("no S3 client configured")
	// ErrBadLocation is returned for s3 URIs missing a bucket or key.
	ErrBadLocation = errors.New("malformed s3 location")
)

// ObjectGetter is the subset of the S3 client used for reading inputs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures NewS3Client. Empty fields defer to the default AWS
// configuration chain.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// NewS3Client builds an S3 client from opts.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awscfg.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

// IsS3 reports whether location is an s3:// URI.
func IsS3(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocation, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocation, location)
	}
	return bucket, key, nil
}

// Opener opens input locations. Local paths are memory-mapped; s3://
// locations are fetched through S3.
type Opener struct {
	S3 ObjectGetter
}

// Open returns a reader over the whole input at location. The caller closes
// it.
func (o Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsS3(location) {
		return o.openS3(ctx, location)
	}
	return openMapped(location)
}

func (o Opener) openS3(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	if o.S3 == nil {
		return nil, fmt.Errorf("open %s: %w", location, ErrNoS3Client)
	}

	out, err := o.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	return out.Body, nil
}

// mappedFile reads a memory-mapped file sequentially.
type mappedFile struct {
	*io.SectionReader
	m *mmap.ReaderAt
}

func (f *mappedFile) Close() error { return f.m.Close() }

func openMapped(path string) (io.ReadCloser, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &mappedFile{SectionReader: io.NewSectionReader(m, 0, int64(m.Len())), m: m}, nil
}
