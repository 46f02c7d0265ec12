package scanner

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	snippetContext = 80
	snippetMaxLen  = 300
)

var errNotText = errors.New("file is not valid UTF-8 text")

// ScanContent applies every detector to one file's text. It is pure: the
// returned FileScan shares no state with any other call.
func ScanContent(content string) FileScan {
	fs := FileScan{
		Counts:   make(map[string]int),
		Snippets: make(map[string][]string),
	}
	if content == "" {
		return fs
	}

	for _, d := range Detectors {
		for _, loc := range d.FindAll(content) {
			fs.Counts[d.Name]++
			if len(fs.Snippets[d.Name]) < MaxExamples {
				fs.Snippets[d.Name] = append(fs.Snippets[d.Name], snippet(content, loc[0], loc[1]))
			}
		}
	}

	fs.DuplicateLogin = loginPattern.MatchString(content)
	fs.SuspiciousSelectors = lookupSelectorPattern.MatchString(content) ||
		escapedSelectorPattern.MatchString(content)

	return fs
}

// snippet returns the first line of the window spanning snippetContext
// characters either side of content[start:end], trimmed and truncated.
func snippet(content string, start, end int) string {
	lo := start
	for i := 0; i < snippetContext && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(content[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < snippetContext && hi < len(content); i++ {
		_, size := utf8.DecodeRuneInString(content[hi:])
		hi += size
	}

	window := content[lo:hi]
	if i := strings.IndexFunc(window, isLineBreak); i >= 0 {
		window = window[:i]
	}
	return truncateRunes(strings.TrimSpace(window), snippetMaxLen)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// readText reads a file as UTF-8 text with universal newlines. Any failure,
// including invalid UTF-8, is returned to the caller, which treats the file
// as empty.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errNotText
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}
