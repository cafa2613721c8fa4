package ec2

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Waiter budgets. The SDK waiters poll provider-side; these bound how long
// one Wait call may block before surfacing a timeout.
const (
	waitRunningTimeout    = 10 * time.Minute
	waitStatusOKTimeout   = 15 * time.Minute
	waitTerminatedTimeout = 10 * time.Minute
)

// API is the slice of the AWS EC2 client this package calls. *awsec2.Client
// satisfies it; tests substitute a fake.
type API interface {
	DescribeInstances(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error)
	DescribeInstanceStatus(ctx context.Context, params *awsec2.DescribeInstanceStatusInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstanceStatusOutput, error)
	RunInstances(ctx context.Context, params *awsec2.RunInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *awsec2.TerminateInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error)
	DeleteTags(ctx context.Context, params *awsec2.DeleteTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.DeleteTagsOutput, error)
	ModifyInstanceAttribute(ctx context.Context, params *awsec2.ModifyInstanceAttributeInput, optFns ...func(*awsec2.Options)) (*awsec2.ModifyInstanceAttributeOutput, error)
	CreateSecurityGroup(ctx context.Context, params *awsec2.CreateSecurityGroupInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateSecurityGroupOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *awsec2.DescribeSecurityGroupsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *awsec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*awsec2.Options)) (*awsec2.AuthorizeSecurityGroupIngressOutput, error)
	DeleteSecurityGroup(ctx context.Context, params *awsec2.DeleteSecurityGroupInput, optFns ...func(*awsec2.Options)) (*awsec2.DeleteSecurityGroupOutput, error)
	CreatePlacementGroup(ctx context.Context, params *awsec2.CreatePlacementGroupInput, optFns ...func(*awsec2.Options)) (*awsec2.CreatePlacementGroupOutput, error)
	DeletePlacementGroup(ctx context.Context, params *awsec2.DeletePlacementGroupInput, optFns ...func(*awsec2.Options)) (*awsec2.DeletePlacementGroupOutput, error)
	DescribePlacementGroups(ctx context.Context, params *awsec2.DescribePlacementGroupsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribePlacementGroupsOutput, error)
	DescribeVpcs(ctx context.Context, params *awsec2.DescribeVpcsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, params *awsec2.DescribeSubnetsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeSubnetsOutput, error)
	DescribeImages(ctx context.Context, params *awsec2.DescribeImagesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeImagesOutput, error)
}

var _ API = (*awsec2.Client)(nil)

// RealClient implements Client using the AWS EC2 API.
type RealClient struct {
	api    API
	region string
}

// ClientOption configures a RealClient.
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

// WithAPI substitutes the underlying EC2 API (useful for testing).
func WithAPI(api API) ClientOption {
	return func(o *clientOptions) {
		o.api = api
	}
}

// NewRealClient creates a new EC2 client for the given region. Credentials
// come from the default AWS chain (environment, shared config, instance
// role) unless overridden.
func NewRealClient(ctx context.Context, region string, opts ...ClientOption) (*RealClient, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.api != nil {
		return &RealClient{api: o.api, region: region}, nil
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if o.accessKey != "" {
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &RealClient{api: awsec2.NewFromConfig(cfg), region: region}, nil
}

// Region returns the region this client is scoped to.
func (c *RealClient) Region() string {
	return c.region
}

var _ Client = (*RealClient)(nil)
