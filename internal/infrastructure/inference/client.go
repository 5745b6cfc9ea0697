// Package inference wraps OpenAI-compatible chat completion endpoints. Both
// the turn provider and the token parameter provider speak the same wire
// format, so one client type serves both.
package inference

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"zync-server/backroom-api/internal/utils/platformerrors"
)

// Client calls one OpenAI-compatible /chat/completions endpoint with a fixed
// credential and timeout.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	name    string
	timeout time.Duration
}

func NewClient(client *resty.Client, name, baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
		name:    name,
		timeout: timeout,
	}
}

func (c *Client) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var respBody openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/chat/completions"))
	if err != nil {
		if ctx.Err() != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeTimeout,
				fmt.Sprintf("%s completion request timed out", c.name), err,
				"20c5b9e7-84d1-4f36-a0c8-e72d31f6a905")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s completion request failed", c.name), err,
			"743a1d0f-e58c-42b6-91d4-0cf6a8e25b73")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, fmt.Sprintf("%s completion request failed", c.name))
	}
	return &respBody, nil
}

func (c *Client) prepareRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	return req
}

func (c *Client) endpoint(path string) string {
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, message, nil,
			"9f16c2d8-a045-4e73-b8f2-51d38c0e76a4")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil || strings.TrimSpace(string(body)) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s: status %d", message, resp.StatusCode()), nil,
			"c48e7a31-0b9d-4562-af07-d8c13e65b290")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal,
		fmt.Sprintf("%s: %s", message, strings.TrimSpace(string(body))), nil,
		"612d09cb-7e54-48a3-b1f6-29ae80d5c317")
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
