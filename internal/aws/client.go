package aws

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// SDKClient implements Client with the AWS SDK v2.
type SDKClient struct {
	sts *sts.Client
	s3  *s3.Client
}

// NewSDKClient loads the shared AWS config for profile and region.
// Empty values fall back to the default credential chain.
func NewSDKClient(ctx context.Context, profile, region string) (*SDKClient, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SDKClient{sts: sts.NewFromConfig(cfg), s3: s3.NewFromConfig(cfg)}, nil
}

func (c *SDKClient) Identity(ctx context.Context) (*CallerIdentity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("getting caller identity: %w", err)
	}
	return &CallerIdentity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// PutFile streams obj.LocalPath to S3 with its content type and metadata.
func (c *SDKClient) PutFile(ctx context.Context, obj Object) error {
	f, err := os.Open(obj.LocalPath)
	if err != nil {
		return fmt.Errorf("opening export %s: %w", obj.LocalPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading export %s: %w", obj.LocalPath, err)
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		Metadata:      obj.Metadata,
	}
	if obj.ContentType != "" {
		in.ContentType = aws.String(obj.ContentType)
	}
	if _, err := c.s3.PutObject(ctx, in); err != nil {
		return fmt.Errorf("uploading %s: %w", obj.URI(), err)
	}
	return nil
}
