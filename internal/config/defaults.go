// Package config provides configuration loading and defaults for flakescan.
package config

import "time"

// DefaultConfigDir is the default location for flakescan configuration.
const DefaultConfigDir = "~/.config/flakescan"

// DefaultLog holds the default logging settings.
var DefaultLog = Log{
	Level: "info",
}

// DefaultOutput holds the default terminal output settings.
var DefaultOutput = Output{
	Color: true,
}

// DefaultScan holds the default traversal settings.
var DefaultScan = Scan{
	Workers: 1,
	Exclude: []string{},
}

// DefaultReport holds the default artifact names and format.
var DefaultReport = Report{
	Format:      "json",
	SummaryFile: "repo_summary.txt",
	IssuesFile:  "repo_issues",
	SARIF:       false,
}

// DefaultScorer holds the default remote scorer settings.
var DefaultScorer = Scorer{
	Provider:    ProviderAzure,
	Deployment:  "gpt-4o-demo",
	APIVersion:  "2023-10-01-preview",
	Model:       "gemini-2.5-flash",
	Timeout:     120 * time.Second,
	MaxTokens:   800,
	Temperature: 0,
}
