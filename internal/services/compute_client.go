package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"yield-service/internal/config"
	"yield-service/internal/models"
)

// ComputeClient hands orders off to the external compute service. The
// collaborator later posts the result back through the compute gateway
// endpoints; nothing blocks in-process between hand-off and callback.
type ComputeClient struct {
	baseURL         string
	callbackBaseURL string
	httpClient      *http.Client
}

func NewComputeClient(cfg config.ComputeConfig) *ComputeClient {
	timeoutSeconds, err := strconv.Atoi(cfg.TimeoutSeconds)
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	return &ComputeClient{
		baseURL:         cfg.BaseURL,
		callbackBaseURL: cfg.CallbackBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// RequestComputation sends {order_id, callback_url} to the compute service.
// Timeouts and non-2xx statuses surface as ErrUpstream; the caller rolls back
// and the moderator retries.
func (c *ComputeClient) RequestComputation(ctx context.Context, orderID int64) error {
	payload := models.ComputeRequest{
		OrderID:     orderID,
		CallbackURL: fmt.Sprintf("%s/api/compute/orders/%d/result", c.callbackBaseURL, orderID),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal compute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compute", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build compute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("compute service unreachable: %w", models.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("compute service returned status %d: %w", resp.StatusCode, models.ErrUpstream)
	}

	return nil
}
