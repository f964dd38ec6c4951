package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source opens the raw dataset for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

// Open opens the dataset file
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return "file://" + s.Path
}

// S3GetObjectAPI is the subset of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the dataset from an S3 object.
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Key    string
}

// NewS3Source creates an S3Source using the default AWS credential chain
func NewS3Source(ctx context.Context, region, bucket, key string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Source{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Key:    key,
	}, nil
}

// Open fetches the dataset object
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}
