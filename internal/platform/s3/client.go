package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/ec3io/ec3/internal/errdef"
)

// urlScheme prefixes object locations the CLI treats as S3 instead of a
// local path.
const urlScheme = "s3://"

// API is the subset of the S3 API the client calls.
type API interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
}

var _ API = (*awss3.Client)(nil)

// Client reads and writes configuration objects in S3.
type Client struct {
	api    API
	region string
}

// ClientOption customizes client construction.
type ClientOption func(*clientOptions)

type clientOptions struct {
	accessKey string
	secretKey string
	api       API
}

// WithStaticCredentials uses an explicit key pair instead of the default
// credential chain.
func WithStaticCredentials(accessKey, secretKey string) ClientOption {
	return func(o *clientOptions) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithAPI substitutes the underlying S3 API (useful for testing).
func WithAPI(api API) ClientOption {
	return func(o *clientOptions) {
		o.api = api
	}
}

// NewClient creates an S3 client. An empty region defers to the default
// AWS chain (environment, shared config).
func NewClient(ctx context.Context, region string, opts ...ClientOption) (*Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.api != nil {
		return &Client{api: o.api, region: region}, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if o.accessKey != "" {
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{api: awss3.NewFromConfig(cfg), region: region}, nil
}

// IsURL reports whether location names an S3 object rather than a local
// file.
func IsURL(location string) bool {
	return strings.HasPrefix(location, urlScheme)
}

// ParseURL splits an s3://bucket/key URL into bucket and key.
func ParseURL(location string) (bucket, key string, err error) {
	if !IsURL(location) {
		return "", "", errdef.NewValidation("not an S3 URL: %s", location)
	}
	rest := strings.TrimPrefix(location, urlScheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", errdef.NewValidation("S3 URL must look like s3://bucket/key, got %s", location)
	}
	return bucket, key, nil
}

// FetchObject downloads an object. A missing key is reported as a
// not-found error.
func (c *Client) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errdef.NewNotFound("object s3://%s/%s does not exist", bucket, key)
		}
		return nil, fmt.Errorf("failed to get object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object s3://%s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}

// StoreObject uploads an object, replacing any existing content.
func (c *Client) StoreObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// ObjectExists checks whether an object is present without fetching it.
func (c *Client) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := c.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object s3://%s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// isNoSuchKey checks if the error means the object or bucket is absent.
func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}

	// Typed S3 errors first.
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	// HeadObject reports absence through a bare API error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NoSuchBucket" || code == "NotFound" || code == "404"
	}

	return false
}
