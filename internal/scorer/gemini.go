package scorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	"github.com/blackwell-systems/flakescan/internal/config"
)

// GeminiClient scores through the Gemini API.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      hclog.Logger
}

// NewGeminiClient builds a client for cfg.Model. No request is made.
func NewGeminiClient(ctx context.Context, cfg config.Scorer, logger hclog.Logger) (*GeminiClient, error) {
	return newGeminiClient(ctx, cfg, "", logger)
}

// newGeminiClient allows overriding the API base URL.
func newGeminiClient(ctx context.Context, cfg config.Scorer, baseURL string, logger hclog.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{
		cli:         cli,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// Score asks for an application/json reply and parses it.
func (g *GeminiClient) Score(ctx context.Context, summary, report string) (*ScoreResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Debug("sending request", "model", g.model)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: BuildPrompt(summary, report)}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemMessage}}},
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr(float32(g.temperature)),
			MaxOutputTokens:   int32(g.maxTokens),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("sending scorer request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("scorer response has no candidates")
	}
	return ParseResult(resp.Candidates[0].Content.Parts[0].Text)
}
