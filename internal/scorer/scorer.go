// Package scorer asks a hosted language model to grade a finished scan.
// It reads nothing from disk or the environment; callers pass the summary
// text, the structured report and a validated config.Scorer.
package scorer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/blackwell-systems/flakescan/internal/config"
)

// Scorer grades a scan from its two artifacts.
type Scorer interface {
	Score(ctx context.Context, summary, report string) (*ScoreResult, error)
}

// Impact levels accepted in a Priority.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// Priority is one recommended change with its estimated cost.
type Priority struct {
	Title      string `json:"title"`
	Impact     string `json:"impact"`
	EffortMins int    `json:"effort_mins"`
	Rationale  string `json:"rationale"`
}

// ScoreResult is the parsed model reply.
type ScoreResult struct {
	OverallScore       int        `json:"overall_score"`
	KeyFindings        []string   `json:"key_findings"`
	TopPriorities      []Priority `json:"top_priorities"`
	SimulatedPRTitle   string     `json:"simulated_pr_title"`
	SuggestedPRChanges []string   `json:"suggested_pr_changes"`

	// Raw is the reply text exactly as returned by the model.
	Raw string `json:"-"`
}

// New returns the client for cfg.Provider. cfg is validated first.
func New(ctx context.Context, cfg config.Scorer, logger hclog.Logger) (Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	switch cfg.Provider {
	case config.ProviderAzure:
		return NewAzureClient(cfg, logger.Named("azure")), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger.Named("gemini"))
	}
	return nil, fmt.Errorf("unknown scorer provider %q", cfg.Provider)
}
