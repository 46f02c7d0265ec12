package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	maxFindings     = 6
	maxChanges      = 6
	wantPriorities  = 3
	maxOverallScore = 100
)

// ParseError reports a model reply that is not the requested JSON object.
// Raw holds the reply as received so callers can show it.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing scorer reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// wireResult mirrors ScoreResult with a pointer score so a missing field is
// distinguishable from zero.
type wireResult struct {
	OverallScore       *int       `json:"overall_score"`
	KeyFindings        []string   `json:"key_findings"`
	TopPriorities      []Priority `json:"top_priorities"`
	SimulatedPRTitle   string     `json:"simulated_pr_title"`
	SuggestedPRChanges []string   `json:"suggested_pr_changes"`
}

// ParseResult decodes a model reply, tolerating markdown code fences around
// the object. Any decode or schema failure is a *ParseError.
func ParseResult(raw string) (*ScoreResult, error) {
	text := stripFences(raw)

	var w wireResult
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if err := w.validate(); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	return &ScoreResult{
		OverallScore:       *w.OverallScore,
		KeyFindings:        nonNil(w.KeyFindings),
		TopPriorities:      w.TopPriorities,
		SimulatedPRTitle:   w.SimulatedPRTitle,
		SuggestedPRChanges: nonNil(w.SuggestedPRChanges),
		Raw:                raw,
	}, nil
}

func (w *wireResult) validate() error {
	if w.OverallScore == nil {
		return errors.New("overall_score is missing")
	}
	if s := *w.OverallScore; s < 0 || s > maxOverallScore {
		return fmt.Errorf("overall_score %d is outside 0-100", s)
	}
	if n := len(w.KeyFindings); n > maxFindings {
		return fmt.Errorf("key_findings has %d entries (max %d)", n, maxFindings)
	}
	if n := len(w.TopPriorities); n != wantPriorities {
		return fmt.Errorf("top_priorities has %d entries (want %d)", n, wantPriorities)
	}
	for i, p := range w.TopPriorities {
		switch p.Impact {
		case ImpactLow, ImpactMedium, ImpactHigh:
		default:
			return fmt.Errorf("top_priorities[%d].impact %q is not low, medium or high", i, p.Impact)
		}
	}
	if n := len(w.SuggestedPRChanges); n > maxChanges {
		return fmt.Errorf("suggested_pr_changes has %d entries (max %d)", n, maxChanges)
	}
	return nil
}

// stripFences removes a surrounding ```json or ``` fence.
func stripFences(s string) string {
	text := strings.TrimSpace(s)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
