package suggest

import "github.com/blackwell-systems/flakescan/internal/scanner"

// Engine runs all registered rules against a scan result and collects the
// resulting suggestions.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			HardWaits,
			DuplicateLogin,
			SuspiciousSelectors,
			LowLevelLookup,
		},
	}
}

// Run executes every rule and returns the suggestions in priority order.
func (e *Engine) Run(r *scanner.Result) []Suggestion {
	if r == nil {
		return nil
	}
	var all []Suggestion
	for _, rule := range e.rules {
		all = append(all, rule(r)...)
	}
	return RankSuggestions(all)
}
