package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubS3 struct {
	s3iface.S3API

	copies     []*s3.CopyObjectInput
	puts       []*s3.PutObjectInput
	logging    []*s3.PutBucketLoggingInput
	deletes    []*s3.DeleteObjectsInput
	listedKeys []string
	copyErr    error
	loggingErr error
}

func (s *stubS3) CopyObjectWithContext(ctx aws.Context, input *s3.CopyObjectInput, opts ...request.Option) (*s3.CopyObjectOutput, error) {
	if s.copyErr != nil {
		return nil, s.copyErr
	}

	s.copies = append(s.copies, input)
	return &s3.CopyObjectOutput{}, nil
}

func (s *stubS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	s.puts = append(s.puts, input)
	return &s3.PutObjectOutput{}, nil
}

func (s *stubS3) PutBucketLoggingWithContext(ctx aws.Context, input *s3.PutBucketLoggingInput, opts ...request.Option) (*s3.PutBucketLoggingOutput, error) {
	if s.loggingErr != nil {
		return nil, s.loggingErr
	}

	s.logging = append(s.logging, input)
	return &s3.PutBucketLoggingOutput{}, nil
}

func (s *stubS3) ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error {
	var contents []*s3.Object
	for _, key := range s.listedKeys {
		contents = append(contents, &s3.Object{Key: aws.String(key)})
	}

	fn(&s3.ListObjectsV2Output{Contents: contents}, true)
	return nil
}

func (s *stubS3) DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error) {
	s.deletes = append(s.deletes, input)
	return &s3.DeleteObjectsOutput{}, nil
}

func TestCopyAssets(t *testing.T) {
	stub := &stubS3{}
	site := NewSite(stub)

	spec := CopySpec{
		SourceBucket:     "build-bucket",
		SourcePrefix:     "website/v1",
		DeploymentBucket: "website-bucket",
		Manifest:         []string{"index.html", "static/app.js"},
	}

	err := site.CopyAssets(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, stub.copies, 2)
	assert.Equal(t, "website-bucket", aws.StringValue(stub.copies[0].Bucket))
	assert.Equal(t, "index.html", aws.StringValue(stub.copies[0].Key))
	assert.Equal(t, "build-bucket/website/v1/index.html", aws.StringValue(stub.copies[0].CopySource))

	assert.Empty(t, stub.puts)
}

func TestCopyAssetsRewritesRuntimeConfig(t *testing.T) {
	stub := &stubS3{}
	site := NewSite(stub)

	spec := CopySpec{
		SourceBucket:     "build-bucket",
		SourcePrefix:     "website/v1",
		DeploymentBucket: "website-bucket",
		Manifest:         []string{"index.html", "runtimeConfig.json"},
		RuntimeConfig: map[string]string{
			"AWS_REGION":   "us-east-1",
			"USER_POOL_ID": "us-east-1_example",
		},
	}

	err := site.CopyAssets(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, stub.puts, 1)
	assert.Equal(t, "runtimeConfig.json", aws.StringValue(stub.puts[0].Key))

	body, err := io.ReadAll(stub.puts[0].Body)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, spec.RuntimeConfig, got)
}

func TestPurge(t *testing.T) {
	stub := &stubS3{listedKeys: []string{"index.html", "static/app.js", "logs/access.log"}}
	site := NewSite(stub)

	err := site.Purge(context.Background(), "website-bucket")
	require.NoError(t, err)

	// Access logging must be stopped before anything is deleted.
	require.Len(t, stub.logging, 1)
	assert.Equal(t, "website-bucket", aws.StringValue(stub.logging[0].Bucket))

	require.Len(t, stub.deletes, 1)
	require.Len(t, stub.deletes[0].Delete.Objects, 3)
	assert.Equal(t, "index.html", aws.StringValue(stub.deletes[0].Delete.Objects[0].Key))
}

func TestCopyAssetsFailure(t *testing.T) {
	stub := &stubS3{copyErr: errors.New("access denied")}
	site := NewSite(stub)

	spec := CopySpec{
		SourceBucket:     "build-bucket",
		DeploymentBucket: "website-bucket",
		Manifest:         []string{"index.html"},
	}

	err := site.CopyAssets(context.Background(), spec)
	assert.ErrorContains(t, err, "access denied")
}

func TestPurgeLoggingFailure(t *testing.T) {
	stub := &stubS3{loggingErr: errors.New("access denied"), listedKeys: []string{"index.html"}}
	site := NewSite(stub)

	err := site.Purge(context.Background(), "website-bucket")
	require.ErrorContains(t, err, "access denied")

	// Purge must not delete anything if logging cannot be stopped.
	assert.Empty(t, stub.deletes)
}

func TestPurgeEmptyBucket(t *testing.T) {
	stub := &stubS3{}
	site := NewSite(stub)

	err := site.Purge(context.Background(), "website-bucket")
	require.NoError(t, err)

	assert.Empty(t, stub.deletes)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webapp-manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`["index.html","static/app.js"]`), 0o644))

	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"index.html", "static/app.js"}, manifest)
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
