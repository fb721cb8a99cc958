package seed

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// Replaced in tests
var loadDefaultAWSConfig = config.LoadDefaultConfig

type s3Source struct {
	bucket   string
	key      string
	endpoint string
	region   string
}

func newS3Source(bucket, key, endpoint, region string) (*s3Source, error) {
	if bucket == "" || key == "" {
		return nil, goerr.New("s3:// seed URI needs bucket and key", goerr.V("bucket", bucket), goerr.V("key", key))
	}
	return &s3Source{bucket: bucket, key: key, endpoint: endpoint, region: region}, nil
}

func (s *s3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *s3Source) client(ctx context.Context) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS config")
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *s3Source) Fetch(ctx context.Context) ([]*model.SeedRecord, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get seed object",
			goerr.V("bucket", s.bucket),
			goerr.V("key", s.key),
		)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := readLimited(out.Body)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatOf(s.key))
}
