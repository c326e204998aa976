// Package deploy holds the stack lifecycle plumbing around the client:
// copying website assets from the build bucket into the deployment bucket,
// purging the deployment bucket so CloudFormation can remove it, and
// answering custom resource callbacks.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const runtimeConfigKey = "runtimeConfig.json"

// deleteBatchSize is the DeleteObjects request limit.
const deleteBatchSize = 1000

type Site struct {
	api s3iface.S3API
}

func NewSite(api s3iface.S3API) *Site {
	return &Site{api: api}
}

type CopySpec struct {
	SourceBucket     string
	SourcePrefix     string
	DeploymentBucket string
	Manifest         []string

	// RuntimeConfig, when non-nil, replaces runtimeConfig.json after it has
	// been copied, so the deployed frontend picks up stack outputs.
	RuntimeConfig map[string]string
}

// CopyAssets copies every manifest key from the build bucket into the
// deployment bucket.
func (s *Site) CopyAssets(ctx context.Context, spec CopySpec) error {
	slog.Info(
		"copying website assets",
		"source_bucket", spec.SourceBucket,
		"deployment_bucket", spec.DeploymentBucket,
		"files", len(spec.Manifest),
	)

	for _, key := range spec.Manifest {
		source := fmt.Sprintf("%s/%s/%s", spec.SourceBucket, spec.SourcePrefix, key)

		slog.Debug("copying object", "source", source, "key", key)

		_, err := s.api.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(spec.DeploymentBucket),
			Key:        aws.String(key),
			CopySource: aws.String(source),
		})
		if err != nil {
			return fmt.Errorf("could not copy %s: %w", source, err)
		}

		if spec.RuntimeConfig != nil && key == runtimeConfigKey {
			if err := s.writeRuntimeConfig(ctx, spec); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Site) writeRuntimeConfig(ctx context.Context, spec CopySpec) error {
	slog.Info("updating runtime config", "key", runtimeConfigKey)

	body, err := json.Marshal(spec.RuntimeConfig)
	if err != nil {
		return fmt.Errorf("could not encode runtime config: %w", err)
	}

	_, err = s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(spec.DeploymentBucket),
		Key:    aws.String(runtimeConfigKey),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("could not write runtime config: %w", err)
	}

	return nil
}

// Purge deletes every object in the bucket. Access logging is stopped first,
// otherwise new log objects can appear after the purge and block bucket
// removal when the stack is deleted.
func (s *Site) Purge(ctx context.Context, bucket string) error {
	slog.Info("stopping access logging", "bucket", bucket)

	_, err := s.api.PutBucketLoggingWithContext(ctx, &s3.PutBucketLoggingInput{
		Bucket:              aws.String(bucket),
		BucketLoggingStatus: &s3.BucketLoggingStatus{},
	})
	if err != nil {
		return fmt.Errorf("could not stop access logging on %s: %w", bucket, err)
	}

	slog.Info("purging bucket", "bucket", bucket)

	var batch []*s3.ObjectIdentifier

	err = s.api.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			batch = append(batch, &s3.ObjectIdentifier{Key: obj.Key})
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("could not list objects in %s: %w", bucket, err)
	}

	for len(batch) > 0 {
		n := min(len(batch), deleteBatchSize)

		_, err := s.api.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3.Delete{Objects: batch[:n]},
		})
		if err != nil {
			return fmt.Errorf("could not delete objects in %s: %w", bucket, err)
		}

		slog.Debug("deleted objects", "bucket", bucket, "count", n)

		batch = batch[n:]
	}

	return nil
}

// LoadManifest reads the list of website files to deploy.
func LoadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest: %w", err)
	}

	var manifest []string

	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("could not parse manifest: %w", err)
	}

	return manifest, nil
}
