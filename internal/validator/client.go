// Package validator integrates the optional external link validator: an HTTP
// collaborator that double-checks high-score suggested links from the two
// market titles alone.
package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Client is the HTTP JSON client for the validator service. A failed or
// malformed reply is reported as an uncertain verdict, never as a confirm or
// reject.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a validator client. apiKey may be empty for unsecured
// deployments.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type validateRequest struct {
	SourceTitle string `json:"source_title"`
	TargetTitle string `json:"target_title"`
}

type validateResponse struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
}

// Validate asks the service whether two titles describe the same event. The
// returned result is always usable: transport and decode failures come back
// as VerdictUncertain alongside the error so callers can count the failure
// without acting on it.
func (c *Client) Validate(ctx context.Context, sourceTitle, targetTitle string) (domain.ValidatorResult, error) {
	uncertain := domain.ValidatorResult{Verdict: domain.VerdictUncertain}

	payload, err := json.Marshal(validateRequest{SourceTitle: sourceTitle, TargetTitle: targetTitle})
	if err != nil {
		return uncertain, fmt.Errorf("validator: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(payload))
	if err != nil {
		return uncertain, fmt.Errorf("validator: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uncertain, fmt.Errorf("validator: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return uncertain, fmt.Errorf("validator: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return uncertain, fmt.Errorf("validator: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var decoded validateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return uncertain, fmt.Errorf("validator: decode response: %w", err)
	}

	switch domain.ValidatorVerdict(decoded.Verdict) {
	case domain.VerdictConfirm, domain.VerdictReject, domain.VerdictUncertain:
		return domain.ValidatorResult{
			Verdict:    domain.ValidatorVerdict(decoded.Verdict),
			Confidence: clamp01(decoded.Confidence),
		}, nil
	default:
		// Unknown verdict values are treated as uncertain, not as errors.
		return uncertain, nil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
