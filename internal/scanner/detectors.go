package scanner

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Detector names, in declaration order.
const (
	WaitForTimeout       = "waitForTimeout"
	HardSleep            = "hard_sleep"
	PageDollar           = "page_dollar"
	PageClickWithTimeout = "page_click_with_timeout"
	HardCodedSelectors   = "hard_coded_selectors"
	ExpectAssert         = "expect_assert"
	DuplicateLogin       = "duplicate_login"
)

// Detector is a named textual pattern for one known risk signal.
type Detector struct {
	Name    string
	Pattern *regexp.Regexp

	// WordStart rejects matches preceded by a letter, digit or underscore
	// in any script. RE2's \b only knows ASCII word characters.
	WordStart bool
}

// FindAll returns the byte ranges of every non-overlapping match in content,
// scanning left to right.
func (d Detector) FindAll(content string) [][]int {
	if !d.WordStart {
		return d.Pattern.FindAllStringIndex(content, -1)
	}

	var locs [][]int
	for pos := 0; pos <= len(content); {
		loc := d.Pattern.FindStringIndex(content[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if precededByWordRune(content, start) {
			// Retry one rune later; a rejected match may hide a valid one.
			_, size := utf8.DecodeRuneInString(content[start:])
			pos = start + max(size, 1)
			continue
		}
		locs = append(locs, []int{start, end})
		if end == start {
			end++
		}
		pos = end
	}
	return locs
}

func precededByWordRune(content string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(content[:i])
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Detectors is the fixed detector table. Order matters: the summary lists
// counts in this order.
//
// hard_coded_selectors matches any quoted CSS/attribute-like literal, so its
// count is an upper bound.
var Detectors = []Detector{
	{Name: WaitForTimeout, Pattern: regexp.MustCompile(`waitForTimeout\(`), WordStart: true},
	{Name: HardSleep, Pattern: regexp.MustCompile(`(page|browser)\.waitForTimeout\(`), WordStart: true},
	{Name: PageDollar, Pattern: regexp.MustCompile(`page\.\$\(.*\)`), WordStart: true},
	{Name: PageClickWithTimeout, Pattern: regexp.MustCompile(`page\.click\([^)]*,` + unicodeSpace + `*\{[^}]*timeout`), WordStart: true},
	{Name: HardCodedSelectors, Pattern: regexp.MustCompile(`['"#.][A-Za-z0-9_\-\[\]=' ">]+['"]`)},
	{Name: ExpectAssert, Pattern: regexp.MustCompile(`expect\(`), WordStart: true},
	{Name: DuplicateLogin, Pattern: regexp.MustCompile(`login\(|LoginPage`)},
}

// unicodeSpace is whitespace in any script, including vertical tab and
// no-break space, which RE2's \s leaves out.
const unicodeSpace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// loginPattern is the duplicate_login detector's pattern, reused for the
	// per-file duplicate-login check.
	loginPattern = mustDetector(DuplicateLogin).Pattern

	// lookupSelectorPattern matches page.$( with a class or id selector literal.
	lookupSelectorPattern = regexp.MustCompile(`page\.\$\(('#|"#|"\.|'\.)`)

	// escapedSelectorPattern matches a backslash escaping a backslash,
	// bracket or hash, a proxy for hand-escaped complex selectors.
	escapedSelectorPattern = regexp.MustCompile(`\\[\\\[\]#]`)
)

// DetectorNames returns detector names in declaration order.
func DetectorNames() []string {
	names := make([]string, len(Detectors))
	for i, d := range Detectors {
		names[i] = d.Name
	}
	return names
}

func mustDetector(name string) Detector {
	for _, d := range Detectors {
		if d.Name == name {
			return d
		}
	}
	panic("scanner: unknown detector " + name)
}
