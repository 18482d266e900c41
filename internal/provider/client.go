package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no provider base URL has been configured.
var ErrNotConfigured = errors.New("provider base URL not configured")

const (
	textGenerationPath  = "/v1/generate/text"
	imageGenerationPath = "/v1/generate/image"

	defaultRequestTimeout = 120 * time.Second
)

// TextRequest is the typed request body for text generation.
type TextRequest struct {
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// TextResponse is the provider's text generation response.
type TextResponse struct {
	ID     string `json:"id,omitempty"`
	Output string `json:"output"`
}

// ImageRequest is the typed request body for image generation.
type ImageRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// ImageResponse is the provider's image generation response.
type ImageResponse struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// Options configures a provider Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin JSON-over-HTTP client for a downstream generation API.
// It never holds a credential of its own: every call receives the session's
// relayed bearer token and forwards it verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a provider client.
func NewClient(options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL:    options.BaseURL,
		httpClient: httpClient,
	}
}

// GenerateText runs a text generation request with the given bearer token.
func (c *Client) GenerateText(ctx context.Context, token string, req *TextRequest) (*TextResponse, error) {
	return doJSON[TextResponse](ctx, c, textGenerationPath, token, req)
}

// GenerateImage runs an image generation request with the given bearer token.
func (c *Client) GenerateImage(ctx context.Context, token string, req *ImageRequest) (*ImageResponse, error) {
	return doJSON[ImageResponse](ctx, c, imageGenerationPath, token, req)
}

// doJSON performs a JSON POST request against the provider and unmarshals the
// response.
func doJSON[T any](ctx context.Context, c *Client, path, token string, body any) (*T, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("provider error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}
