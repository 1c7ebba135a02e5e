package fragment

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source serves pre-rendered fragments from an S3 bucket. The request URL
// path maps to an object key under the configured prefix, so "/panels/main"
// with prefix "fragments/" reads "fragments/panels/main". Method and form
// values are ignored; objects are static.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source creates an S3-backed fragment source.
func NewS3Source(client *s3.Client, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, req Request) ([]byte, error) {
	key, err := s.key(req.URL)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fragment: s3 get %s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("fragment: s3 read %s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// key maps a fragment URL to an object key. Path traversal is rejected by
// cleaning the path before joining it to the prefix.
func (s *S3Source) key(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("fragment: invalid url %q: %w", raw, err)
	}
	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "", fmt.Errorf("fragment: url %q has no path", raw)
	}
	return s.prefix + strings.TrimPrefix(p, "/"), nil
}
