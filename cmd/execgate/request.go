package main

import (
	"fmt"

	"github.com/IllumiKnowLabs/execgate/internal/client"
	"github.com/IllumiKnowLabs/execgate/internal/config"
	"github.com/IllumiKnowLabs/execgate/internal/credentials"
	"github.com/IllumiKnowLabs/execgate/internal/transport"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/spf13/cobra"
)

func newClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("could not create AWS session: %w", err)
	}

	provider := credentials.NewSTSProvider(sts.New(sess), cfg.RoleARN)
	dispatcher := transport.NewHTTPDispatcher(cfg.HTTPTimeout)

	return client.New(cfg, provider, dispatcher), nil
}

func NewGetCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Issue a signed GET request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			res, err := c.Get(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			fmt.Println(string(res.Body))

			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Pre-encoded query string, parameters sorted by name")

	return cmd
}

func NewPostCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "Issue a signed POST request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			res, err := c.Post(cmd.Context(), args[0], []byte(data))
			if err != nil {
				return err
			}

			fmt.Println(string(res.Body))

			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Request body")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Issue a signed DELETE request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			res, err := c.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(string(res.Body))

			return nil
		},
	}

	return cmd
}
