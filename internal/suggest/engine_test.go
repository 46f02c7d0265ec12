package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/flakescan/internal/scanner"
)

// --- Engine.Run ---

func TestEngineRun_NilResult(t *testing.T) {
	assert.Nil(t, NewEngine().Run(nil))
}

func TestEngineRun_CleanResult(t *testing.T) {
	r := scanner.NewResult("clean")
	r.PatternCounts[scanner.ExpectAssert] = 4
	assert.Empty(t, NewEngine().Run(r))
}

func TestEngineRun_AllRulesInPriorityOrder(t *testing.T) {
	r := scanner.NewResult("repo")
	r.PatternCounts[scanner.WaitForTimeout] = 3
	r.PatternCounts[scanner.PageDollar] = 1
	r.DuplicateLoginFiles = []string{"tests/a.spec.ts"}
	r.SuspiciousSelectorsFiles = []string{"tests/b.spec.ts"}

	got := NewEngine().Run(r)
	if assert.Len(t, got, 4) {
		assert.Equal(t, PriorityCritical, got[0].Priority)
		assert.Contains(t, got[0].Text, "hard waits")
		assert.Contains(t, got[1].Text, "login flow")
		assert.Contains(t, got[2].Text, "selectors for stability")
		assert.Contains(t, got[3].Text, "page.$")
	}
}

// --- individual rules ---

func TestHardWaits_IgnoresHardSleepOnly(t *testing.T) {
	r := scanner.NewResult("repo")
	r.PatternCounts[scanner.HardSleep] = 2
	assert.Empty(t, HardWaits(r))
}

func TestLowLevelLookup(t *testing.T) {
	r := scanner.NewResult("repo")
	assert.Empty(t, LowLevelLookup(r))
	r.PatternCounts[scanner.PageDollar] = 1
	assert.Len(t, LowLevelLookup(r), 1)
}

func TestDuplicateLoginAndSelectors(t *testing.T) {
	r := scanner.NewResult("repo")
	assert.Empty(t, DuplicateLogin(r))
	assert.Empty(t, SuspiciousSelectors(r))

	r.DuplicateLoginFiles = []string{"a"}
	r.SuspiciousSelectorsFiles = []string{"b"}
	assert.Len(t, DuplicateLogin(r), 1)
	assert.Len(t, SuspiciousSelectors(r), 1)
}

// --- RankSuggestions ---

func TestRankSuggestions_StableByPriority(t *testing.T) {
	in := []Suggestion{
		{Text: "low", Priority: PriorityLow},
		{Text: "first-high", Priority: PriorityHigh},
		{Text: "critical", Priority: PriorityCritical},
		{Text: "second-high", Priority: PriorityHigh},
	}
	got := RankSuggestions(in)

	var texts []string
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"critical", "first-high", "second-high", "low"}, texts)
	assert.Equal(t, "low", in[0].Text, "input must not be reordered")
}
