package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flashdeck/backend/internal/models"
)

// apiClient calls the public demo endpoints of the API
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string, httpClient *http.Client) *apiClient {
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// apiError is a non-2xx response of the API
type apiError struct {
	Status  int
	Code    string
	Message string
	Details []models.FieldError
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("api returned %d", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	for _, d := range e.Details {
		msg += fmt.Sprintf(" (%s: %s)", d.Path, d.Message)
	}
	return msg
}

func (c *apiClient) SubmitDemoResult(ctx context.Context, req *models.CreateDemoResultRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/challenge/demo/results", body, nil)
}

func (c *apiClient) DemoLeaderboard(ctx context.Context) ([]models.DemoLeaderboardEntry, error) {
	var resp struct {
		Items []models.DemoLeaderboardEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/challenge/demo/leaderboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body []byte, dst any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		var envelope models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.Details = envelope.Error.Details
		}
		return apiErr
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
