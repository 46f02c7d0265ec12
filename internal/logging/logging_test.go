package logging

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want hclog.Level
		ok   bool
	}{
		{"trace", hclog.Trace, true},
		{"DEBUG", hclog.Debug, true},
		{"", hclog.Info, true},
		{" info ", hclog.Info, true},
		{"warning", hclog.Warn, true},
		{"error", hclog.Error, true},
		{"loud", hclog.Info, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("flakescan", Options{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "file", "tests/a.spec.ts")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "flakescan: shown: file=tests/a.spec.ts")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New("flakescan", Options{Level: "error", Verbose: true, Output: &buf})
	logger.Debug("walking")
	assert.Contains(t, buf.String(), "walking")
}

func TestNew_UnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := New("flakescan", Options{Level: "loud", Output: &buf})
	assert.Contains(t, buf.String(), "unrecognized log level")
	assert.True(t, logger.IsInfo())
	assert.False(t, logger.IsDebug())
}
