// Package scanner walks a tree of browser-automation test sources, applies
// the detector table to every file, and aggregates the findings into a Result.
package scanner

// MaxExamples is the number of illustrative snippets kept per detector
// across a whole run.
const MaxExamples = 3

// Example is a single illustrative match for a detector.
type Example struct {
	// File is the slash-separated path relative to the scan root.
	File string `json:"file" yaml:"file"`

	// Snippet is the first line of the context window around the match,
	// trimmed and truncated to 300 characters.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Result is the aggregate of one scan run. It is mutated while the tree is
// walked and normalized once by Finalize before rendering.
type Result struct {
	// RepoName is the base name of the absolute scan root.
	RepoName string `json:"repo_name" yaml:"repo_name"`

	// TotalFiles counts every non-directory entry visited, including
	// unreadable and non-matching files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TestFiles lists paths classified as tests.
	TestFiles []string `json:"test_files" yaml:"test_files"`

	// PagesFiles lists paths classified as page objects.
	PagesFiles []string `json:"pages_files" yaml:"pages_files"`

	// PatternCounts maps detector name to total match count. Detectors that
	// never fired have no entry.
	PatternCounts map[string]int `json:"pattern_counts" yaml:"pattern_counts"`

	// PatternExamples maps detector name to at most MaxExamples examples.
	PatternExamples map[string][]Example `json:"pattern_examples" yaml:"pattern_examples"`

	// DuplicateLoginFiles lists files that reference a login flow.
	DuplicateLoginFiles []string `json:"duplicate_login_files" yaml:"duplicate_login_files"`

	// SuspiciousSelectorsFiles lists files with brittle selector usage.
	SuspiciousSelectorsFiles []string `json:"suspicious_selectors_files" yaml:"suspicious_selectors_files"`

	// RepoSummaryText is the rendered human-readable summary. It is empty
	// until the result has been rendered.
	RepoSummaryText string `json:"repo_summary_text" yaml:"repo_summary_text"`
}

// Tags is the File Classifier's verdict for one path.
type Tags struct {
	Test       bool
	PageObject bool
}

// FileScan is the Content Scanner's output for one file's text.
type FileScan struct {
	// Counts maps detector name to the number of matches in this file.
	Counts map[string]int

	// Snippets holds up to MaxExamples snippets per detector, in match order.
	Snippets map[string][]string

	// DuplicateLogin reports whether the login-flow marker appears.
	DuplicateLogin bool

	// SuspiciousSelectors reports whether brittle selector usage appears.
	SuspiciousSelectors bool
}
