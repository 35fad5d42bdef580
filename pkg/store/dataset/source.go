package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source yields the raw bytes of one CSV file.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// S3API is the part of the S3 client a source needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type SourceOptions struct {
	HTTPClient *http.Client
	// S3Client is created from the default AWS configuration on first use
	// when left nil.
	S3Client S3API
}

// NewSource picks a source implementation from the location's scheme:
// http(s)://, s3://bucket/key, file:// or a bare filesystem path.
func NewSource(ctx context.Context, location string, opts SourceOptions) (Source, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid source location %q: %w", location, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		client := opts.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		return &httpSource{client: client, url: location}, nil
	case "s3":
		client := opts.S3Client
		if client == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load AWS config for %s: %w", location, err)
			}
			client = s3.NewFromConfig(cfg)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 location %q: expected s3://bucket/key", location)
		}
		return &s3Source{client: client, bucket: u.Host, key: key}, nil
	case "file":
		return &fileSource{path: u.Path}, nil
	case "":
		return &fileSource{path: location}, nil
	}
	return nil, fmt.Errorf("unsupported source scheme %q in %s", u.Scheme, location)
}

type httpSource struct {
	client *http.Client
	url    string
}

func (s *httpSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (s *httpSource) String() string {
	return s.url
}

type s3Source struct {
	client S3API
	bucket string
	key    string
}

func (s *s3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (s *s3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

type fileSource struct {
	path string
}

func (s *fileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

func (s *fileSource) String() string {
	return s.path
}
