// Package suggest turns a finalized scan result into the short list of
// remediation lines shown under "Quick suggestions".
package suggest

import "github.com/blackwell-systems/flakescan/internal/scanner"

// Priority levels for suggestions. Lower values are listed first.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion is one remediation line triggered by a threshold check.
type Suggestion struct {
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Text     string `json:"text"`
}

// Rule examines a scan result and produces zero or more suggestions.
type Rule func(r *scanner.Result) []Suggestion
