package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/IllumiKnowLabs/execgate/internal/deploy"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/spf13/cobra"
)

func newSite() (*deploy.Site, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("could not create AWS session: %w", err)
	}

	return deploy.NewSite(s3.New(sess)), nil
}

func NewSiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage the deployed website bucket",
	}

	cmd.AddCommand(NewSiteCopyCmd())
	cmd.AddCommand(NewSitePurgeCmd())

	return cmd
}

// addCFNFlags registers the CloudFormation custom resource flags shared by
// the site subcommands. When --response-url is set, the command answers the
// callback with the operation outcome.
func addCFNFlags(cmd *cobra.Command, event *deploy.Event, physicalResourceID *string) {
	cmd.Flags().StringVar(&event.ResponseURL, "response-url", "", "CloudFormation callback URL to answer with the operation outcome")
	cmd.Flags().StringVar(&event.StackID, "stack-id", "", "CloudFormation stack ARN for the callback")
	cmd.Flags().StringVar(&event.RequestID, "request-id", "", "CloudFormation request ID for the callback")
	cmd.Flags().StringVar(&event.LogicalResourceID, "logical-resource-id", "", "CloudFormation logical resource ID for the callback")
	cmd.Flags().StringVar(physicalResourceID, "physical-resource-id", "", "Physical resource ID reported in the callback")
}

// respond answers the CloudFormation callback when a response URL was given,
// then returns the operation error unchanged. A callback delivery failure is
// logged but never masks the operation outcome.
func respond(ctx context.Context, event deploy.Event, physicalResourceID string, opErr error) error {
	if event.ResponseURL == "" {
		return opErr
	}

	status := deploy.StatusSuccess
	message := "Resource operation successful!"

	if opErr != nil {
		status = deploy.StatusFailed
		message = opErr.Error()
	}

	err := deploy.SendResponse(
		ctx,
		nil,
		event,
		status,
		message,
		physicalResourceID,
		map[string]string{"Message": message},
	)
	if err != nil {
		slog.Error("could not answer CloudFormation callback", "error", err)
	}

	return opErr
}

func NewSiteCopyCmd() *cobra.Command {
	var (
		sourceBucket       string
		sourcePrefix       string
		deploymentBucket   string
		manifestPath       string
		runtimeConfigPath  string
		event              deploy.Event
		physicalResourceID string
	)

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy website assets from the build bucket to the deployment bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return respond(cmd.Context(), event, physicalResourceID, func() error {
				site, err := newSite()
				if err != nil {
					return err
				}

				manifest, err := deploy.LoadManifest(manifestPath)
				if err != nil {
					return err
				}

				var runtimeConfig map[string]string
				if runtimeConfigPath != "" {
					data, err := os.ReadFile(runtimeConfigPath)
					if err != nil {
						return fmt.Errorf("could not read runtime config: %w", err)
					}

					if err := json.Unmarshal(data, &runtimeConfig); err != nil {
						return fmt.Errorf("could not parse runtime config: %w", err)
					}
				}

				spec := deploy.CopySpec{
					SourceBucket:     sourceBucket,
					SourcePrefix:     sourcePrefix,
					DeploymentBucket: deploymentBucket,
					Manifest:         manifest,
					RuntimeConfig:    runtimeConfig,
				}

				return site.CopyAssets(cmd.Context(), spec)
			}())
		},
	}

	cmd.Flags().StringVar(&sourceBucket, "source-bucket", "", "Build bucket holding website assets")
	cmd.Flags().StringVar(&sourcePrefix, "source-prefix", "", "Key prefix inside the build bucket")
	cmd.Flags().StringVar(&deploymentBucket, "deployment-bucket", "", "Target website bucket")
	cmd.Flags().StringVar(&manifestPath, "manifest", "webapp-manifest.json", "Path to the asset manifest")
	cmd.Flags().StringVar(&runtimeConfigPath, "runtime-config", "", "JSON file with runtime variables for the frontend")
	addCFNFlags(cmd, &event, &physicalResourceID)

	_ = cmd.MarkFlagRequired("source-bucket")
	_ = cmd.MarkFlagRequired("deployment-bucket")

	return cmd
}

func NewSitePurgeCmd() *cobra.Command {
	var (
		bucket             string
		event              deploy.Event
		physicalResourceID string
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all objects from the deployment bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return respond(cmd.Context(), event, physicalResourceID, func() error {
				site, err := newSite()
				if err != nil {
					return err
				}

				return site.Purge(cmd.Context(), bucket)
			}())
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket to purge")
	addCFNFlags(cmd, &event, &physicalResourceID)

	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}
