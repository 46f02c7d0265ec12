package scanner

import "sort"

// NewResult returns an empty Result with every map and list initialized, so
// that an empty scan still serializes as {} and [] rather than null.
func NewResult(repoName string) *Result {
	return &Result{
		RepoName:                 repoName,
		TestFiles:                []string{},
		PagesFiles:               []string{},
		PatternCounts:            make(map[string]int),
		PatternExamples:          make(map[string][]Example),
		DuplicateLoginFiles:      []string{},
		SuspiciousSelectorsFiles: []string{},
	}
}

// Count returns the total match count for a detector.
func (r *Result) Count(detector string) int {
	return r.PatternCounts[detector]
}

// AddFile folds one visited file into the result: it bumps TotalFiles,
// records the classification, merges detector counts and examples
// (respecting MaxExamples across the whole run) and records the
// duplicate-login and suspicious-selector checks.
func (r *Result) AddFile(relPath string, tags Tags, scan FileScan) {
	r.TotalFiles++

	if tags.Test {
		r.TestFiles = append(r.TestFiles, relPath)
	}
	if tags.PageObject {
		r.PagesFiles = append(r.PagesFiles, relPath)
	}

	for _, d := range Detectors {
		n := scan.Counts[d.Name]
		if n == 0 {
			continue
		}
		r.PatternCounts[d.Name] += n
		for _, s := range scan.Snippets[d.Name] {
			if len(r.PatternExamples[d.Name]) >= MaxExamples {
				break
			}
			r.PatternExamples[d.Name] = append(r.PatternExamples[d.Name], Example{File: relPath, Snippet: s})
		}
	}

	if scan.DuplicateLogin {
		r.DuplicateLoginFiles = append(r.DuplicateLoginFiles, relPath)
	}
	if scan.SuspiciousSelectors {
		r.SuspiciousSelectorsFiles = append(r.SuspiciousSelectorsFiles, relPath)
	}
}

// Merge folds a partial result into r: counts are summed, example lists are
// concatenated then truncated to MaxExamples, and file lists are unioned.
// Merging partials in walk order yields the same result as a sequential scan.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	r.TotalFiles += other.TotalFiles
	r.TestFiles = append(r.TestFiles, other.TestFiles...)
	r.PagesFiles = append(r.PagesFiles, other.PagesFiles...)
	r.DuplicateLoginFiles = append(r.DuplicateLoginFiles, other.DuplicateLoginFiles...)
	r.SuspiciousSelectorsFiles = append(r.SuspiciousSelectorsFiles, other.SuspiciousSelectorsFiles...)

	for name, n := range other.PatternCounts {
		r.PatternCounts[name] += n
	}
	for name, examples := range other.PatternExamples {
		merged := append(r.PatternExamples[name], examples...)
		if len(merged) > MaxExamples {
			merged = merged[:MaxExamples]
		}
		r.PatternExamples[name] = merged
	}
}

// Finalize deduplicates and sorts every file list. It is idempotent and
// decouples output order from traversal order.
func (r *Result) Finalize() {
	r.TestFiles = dedupeSorted(r.TestFiles)
	r.PagesFiles = dedupeSorted(r.PagesFiles)
	r.DuplicateLoginFiles = dedupeSorted(r.DuplicateLoginFiles)
	r.SuspiciousSelectorsFiles = dedupeSorted(r.SuspiciousSelectorsFiles)
}

func dedupeSorted(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
