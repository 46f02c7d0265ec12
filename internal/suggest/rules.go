package suggest

import "github.com/blackwell-systems/flakescan/internal/scanner"

// HardWaits fires when any waitForTimeout call was found.
func HardWaits(r *scanner.Result) []Suggestion {
	if r.Count(scanner.WaitForTimeout) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: "stability",
		Priority: PriorityCritical,
		Text:     "Replace hard waits (waitForTimeout) with explicit waits (waitForSelector/waitForResponse).",
	}}
}

// DuplicateLogin fires when at least one file drives the login flow inline.
func DuplicateLogin(r *scanner.Result) []Suggestion {
	if len(r.DuplicateLoginFiles) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: "structure",
		Priority: PriorityHigh,
		Text:     "Extract login flow into a fixture/shared helper to reduce duplication.",
	}}
}

// SuspiciousSelectors fires when any file uses brittle selectors.
func SuspiciousSelectors(r *scanner.Result) []Suggestion {
	if len(r.SuspiciousSelectorsFiles) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: "selectors",
		Priority: PriorityMedium,
		Text:     "Review selectors for stability (avoid brittle CSS/XPath).",
	}}
}

// LowLevelLookup fires on any page.$ usage.
func LowLevelLookup(r *scanner.Result) []Suggestion {
	if r.Count(scanner.PageDollar) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: "selectors",
		Priority: PriorityLow,
		Text:     "Avoid page.$ usage for core actions; use robust waitForSelector or built-in locators.",
	}}
}
