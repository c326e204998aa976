// Package client ties credential acquisition, signing and dispatch into the
// get/post/delete operations the gateway API exposes. Each call is strictly
// sequential: assume role, sign, send. Nothing is cached between calls.
package client

import (
	"context"
	"log/slog"

	"github.com/IllumiKnowLabs/execgate/internal/config"
	"github.com/IllumiKnowLabs/execgate/internal/credentials"
	"github.com/IllumiKnowLabs/execgate/internal/sigv4"
	"github.com/IllumiKnowLabs/execgate/internal/transport"
)

type Client struct {
	endpoint   string
	provider   credentials.Provider
	dispatcher transport.Dispatcher
	signer     *sigv4.Signer
}

func New(cfg config.Config, provider credentials.Provider, dispatcher transport.Dispatcher) *Client {
	signer := sigv4.NewSigner(sigv4.Config{
		Region:          cfg.Region,
		SolutionName:    cfg.SolutionName,
		SolutionVersion: cfg.SolutionVersion,
	})

	return &Client{
		endpoint:   cfg.EndpointURL,
		provider:   provider,
		dispatcher: dispatcher,
		signer:     signer,
	}
}

// Get issues a signed GET for path. The query must be pre-encoded and in
// canonical (sorted) order; it becomes part of the signature.
func (c *Client) Get(ctx context.Context, path, query string) (*transport.Response, error) {
	return c.call(ctx, sigv4.MethodGet, path, query, nil)
}

// Post issues a signed POST for path. The body is hashed and sent as opaque
// bytes.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*transport.Response, error) {
	return c.call(ctx, sigv4.MethodPost, path, "", body)
}

// Delete issues a signed, bodyless DELETE for path.
func (c *Client) Delete(ctx context.Context, path string) (*transport.Response, error) {
	return c.call(ctx, sigv4.MethodDelete, path, "", nil)
}

func (c *Client) call(ctx context.Context, method sigv4.Method, path, query string, body []byte) (*transport.Response, error) {
	creds, err := c.provider.AssumeRole(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoint + path

	signed, err := c.signer.Sign(creds, method, endpoint, query, body)
	if err != nil {
		return nil, err
	}

	slog.Info("request", "method", method, "url", signed.URL)

	res, err := c.dispatcher.Send(ctx, signed)
	if err != nil {
		return nil, err
	}

	slog.Info("response", "method", method, "url", signed.URL, "status_code", res.StatusCode)

	return res, nil
}
