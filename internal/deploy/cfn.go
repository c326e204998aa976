package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Event is the subset of a CloudFormation custom resource event needed to
// answer the callback.
type Event struct {
	StackID           string `json:"StackId"`
	RequestID         string `json:"RequestId"`
	LogicalResourceID string `json:"LogicalResourceId"`
	ResponseURL       string `json:"ResponseURL"`
}

type cfnResponse struct {
	Status             string            `json:"Status"`
	Reason             string            `json:"Reason"`
	PhysicalResourceID string            `json:"PhysicalResourceId"`
	StackID            string            `json:"StackId"`
	RequestID          string            `json:"RequestId"`
	LogicalResourceID  string            `json:"LogicalResourceId"`
	Data               map[string]string `json:"Data"`
}

// SendResponse PUTs a resource manipulation status document to the
// CloudFormation callback URL. The Content-Type must be empty; S3 presigned
// callback URLs reject anything else.
func SendResponse(ctx context.Context, client *http.Client, event Event, status, reason, physicalResourceID string, data map[string]string) error {
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(cfnResponse{
		Status:             status,
		Reason:             reason,
		PhysicalResourceID: physicalResourceID,
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		Data:               data,
	})
	if err != nil {
		return fmt.Errorf("could not encode response: %w", err)
	}

	slog.Debug("sending cfn response", "url", event.ResponseURL, "status", status)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, event.ResponseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build response request: %w", err)
	}

	req.Header.Set("Content-Type", "")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not send response: %w", err)
	}
	defer res.Body.Close()

	slog.Info("cfn response sent", "status_code", res.StatusCode, "status", status)

	return nil
}
