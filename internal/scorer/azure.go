package scorer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/blackwell-systems/flakescan/internal/config"
)

const chatCompletionsPath = "/openai/deployments/{deployment}/chat/completions"

// AzureClient scores through an Azure OpenAI chat-completions deployment.
type AzureClient struct {
	client      *resty.Client
	deployment  string
	apiVersion  string
	maxTokens   int
	temperature float64
	logger      hclog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewAzureClient builds a client for cfg. cfg.Endpoint is the resource URL
// without a trailing slash.
func NewAzureClient(cfg config.Scorer, logger hclog.Logger) *AzureClient {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("api-key", cfg.APIKey)
	client.SetLogger(newHclogAdapter(logger))

	return &AzureClient{
		client:      client,
		deployment:  cfg.Deployment,
		apiVersion:  cfg.APIVersion,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Score sends the rendered prompt and parses the first choice.
func (c *AzureClient) Score(ctx context.Context, summary, report string) (*ScoreResult, error) {
	raw, err := c.complete(ctx, BuildPrompt(summary, report))
	if err != nil {
		return nil, err
	}
	return ParseResult(raw)
}

func (c *AzureClient) complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	c.logger.Debug("sending request", "deployment", c.deployment, "api_version", c.apiVersion)

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("deployment", c.deployment).
		SetQueryParam("api-version", c.apiVersion).
		SetBody(body).
		SetResult(&out).
		Post(chatCompletionsPath)
	if err != nil {
		return "", fmt.Errorf("sending scorer request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("scorer returned status %d: %.200s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", errors.New("scorer response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// hclogAdapter forwards resty's logging to an hclog.Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

func newHclogAdapter(logger hclog.Logger) resty.Logger {
	return &hclogAdapter{logger: logger}
}

func (a *hclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a *hclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a *hclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}
