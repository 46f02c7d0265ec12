package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flakescan/internal/config"
	"github.com/blackwell-systems/flakescan/internal/output"
	"github.com/blackwell-systems/flakescan/internal/report"
	"github.com/blackwell-systems/flakescan/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score [dir]",
	Short: "Grade a scanned repository with a hosted language model",
	Long: `Score reads the summary and structured report written by 'flakescan scan'
from dir (default: current directory), sends both to the configured model
(Azure OpenAI or Gemini) and prints the test health score, key findings and
the top three priorities.

Credentials come from config or the environment: AZURE_OPENAI_ENDPOINT,
AZURE_OPENAI_KEY and AZURE_OAI_DEPLOYMENT for Azure, GEMINI_API_KEY for
Gemini. A .env file in the working directory is honored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	env, err := loadAppEnv(cmd)
	if err != nil {
		return err
	}
	if err := env.cfg.Scorer.Validate(); err != nil {
		return fmt.Errorf("invalid scorer config: %w", err)
	}

	summary, issues, err := loadArtifacts(pathArg(args), env.cfg.Report)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sc, err := scorer.New(ctx, env.cfg.Scorer, env.logger.Named("scorer"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	progress := out
	if flagJSON {
		progress = cmd.ErrOrStderr()
	}
	fmt.Fprintf(progress, "Sending request to: %s\n", scorerTarget(env.cfg.Scorer))

	res, err := sc.Score(ctx, summary, issues)
	var parseErr *scorer.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintln(progress, output.Section("Raw Model Output"))
		fmt.Fprintln(progress)
		fmt.Fprintln(progress, parseErr.Raw)
		return fmt.Errorf("model output was not the requested JSON: %w", err)
	}
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderScore(out, res)
	return nil
}

// loadArtifacts reads both scan artifacts from dir, trimmed.
func loadArtifacts(dir string, cfg config.Report) (summary, issues string, err error) {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return "", "", err
	}

	summary, err = readTrimmed(filepath.Join(dir, cfg.SummaryFile))
	if err != nil {
		return "", "", err
	}
	issues, err = readTrimmed(filepath.Join(dir, cfg.IssuesFile+format.Ext()))
	if err != nil {
		return "", "", err
	}
	return summary, issues, nil
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %s: %w (run 'flakescan scan' first)", path, err)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// scorerTarget describes where the request goes, without credentials.
func scorerTarget(cfg config.Scorer) string {
	if cfg.Provider == config.ProviderGemini {
		return "gemini model " + cfg.Model
	}
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		cfg.Endpoint, cfg.Deployment, cfg.APIVersion)
}

func renderScore(w io.Writer, res *scorer.ScoreResult) {
	fmt.Fprintln(w, output.Section("Raw Model Output"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Raw)

	fmt.Fprintln(w, output.Section("Test Health"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Overall score"), output.ScoreBar(float64(res.OverallScore), 20))

	if len(res.KeyFindings) > 0 {
		fmt.Fprintln(w, output.Section("Key Findings"))
		fmt.Fprintln(w)
		for _, f := range res.KeyFindings {
			fmt.Fprintf(w, " - %s\n", f)
		}
	}

	fmt.Fprintln(w, output.Section("Top Priorities"))
	fmt.Fprintln(w)
	tbl := output.NewTable("#", "Title", "Impact", "Effort")
	for i, p := range res.TopPriorities {
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			p.Title,
			output.ImpactStyle(p.Impact).Render(p.Impact),
			fmt.Sprintf("%dm", p.EffortMins),
		)
	}
	tbl.Fprint(w)
	for i, p := range res.TopPriorities {
		if p.Rationale != "" {
			fmt.Fprintf(w, " %s %s\n", output.StyleMuted.Render(fmt.Sprintf("%d.", i+1)), p.Rationale)
		}
	}

	if res.SimulatedPRTitle != "" || len(res.SuggestedPRChanges) > 0 {
		fmt.Fprintln(w, output.Section("Suggested PR"))
		fmt.Fprintln(w)
		if res.SimulatedPRTitle != "" {
			fmt.Fprintf(w, " %s\n", output.StyleBold.Render(res.SimulatedPRTitle))
		}
		for _, c := range res.SuggestedPRChanges {
			fmt.Fprintf(w, " - %s\n", c)
		}
	}
}
