package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/IllumiKnowLabs/execgate/internal/sigv4"
	"github.com/klauspost/compress/zstd"
)

// Response is the opaque outcome of a dispatched request. The dispatcher
// never interprets the body; that is the caller's concern.
type Response struct {
	StatusCode int
	Body       []byte
}

// Dispatcher executes a signed request. Implementations own any timeout or
// cancellation policy; the signer mandates none.
type Dispatcher interface {
	Send(ctx context.Context, req *sigv4.SignedRequest) (*Response, error)
}

// TransportError surfaces a network or HTTP failure unchanged. It is never
// retried here.
type TransportError struct {
	Method sigv4.Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPDispatcher sends signed requests over net/http and transparently
// decodes gzip and zstd response bodies.
type HTTPDispatcher struct {
	client *http.Client
}

func NewHTTPDispatcher(timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDispatcher) Send(ctx context.Context, req *sigv4.SignedRequest) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	httpReq.Header.Set("Accept-Encoding", "zstd, gzip")

	slog.Debug("sending request", "method", req.Method, "url", req.URL)

	httpRes, err := d.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer httpRes.Body.Close()

	resBody, err := readBody(httpRes)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	slog.Debug("response received", "status_code", httpRes.StatusCode, "length", len(resBody))

	res := &Response{
		StatusCode: httpRes.StatusCode,
		Body:       resBody,
	}

	return res, nil
}

func readBody(res *http.Response) ([]byte, error) {
	var reader io.Reader = res.Body

	switch res.Header.Get("Content-Encoding") {
	case "gzip":
		slog.Debug("decompressing gzip response")

		gz, err := gzip.NewReader(res.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip response: %w", err)
		}
		defer gz.Close()

		reader = gz

	case "zstd":
		slog.Debug("decompressing zstd response")

		zr, err := zstd.NewReader(res.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid zstd response: %w", err)
		}
		defer zr.Close()

		reader = zr
	}

	return io.ReadAll(reader)
}
