package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flakescan/internal/output"
	"github.com/blackwell-systems/flakescan/internal/scanner"
	"github.com/blackwell-systems/flakescan/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [path]",
	Short: "Print ranked remediation suggestions for a repository",
	Long: `Suggest scans path (default: current directory) without writing any
artifacts and prints the remediation suggestions triggered by the findings,
most urgent first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of suggestions to show (0 = all)")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Filter by category (stability, structure, selectors)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	env, err := loadAppEnv(cmd)
	if err != nil {
		return err
	}
	if err := env.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	root := pathArg(args)
	res, err := scanner.Scan(ctx, root, scanOptions(env.cfg, env.logger))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root, err)
	}

	suggestions := suggest.NewEngine().Run(res)
	if suggestCategory != "" {
		suggestions = filterByCategory(suggestions, suggestCategory)
	}
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	if flagJSON {
		return outputSuggestJSON(cmd.OutOrStdout(), suggestions)
	}
	renderSuggestions(cmd.OutOrStdout(), suggestions)
	return nil
}

func filterByCategory(suggestions []suggest.Suggestion, category string) []suggest.Suggestion {
	var filtered []suggest.Suggestion
	for _, s := range suggestions {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func outputSuggestJSON(w io.Writer, suggestions []suggest.Suggestion) error {
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suggestions)
}

func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, output.Section("Suggestions"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No suggestions. The suite looks stable!")
		return
	}

	fmt.Fprintln(w, output.Section("Remediation Suggestions"))
	fmt.Fprintln(w)

	for i, s := range suggestions {
		label := stylePriority(s.Priority, priorityToLabel(s.Priority))
		fmt.Fprintf(w, " #%d %s %s\n", i+1, label, s.Text)
		fmt.Fprintf(w, "    Category: %s\n", s.Category)
		fmt.Fprintln(w)
	}
}

func priorityToLabel(priority int) string {
	switch priority {
	case suggest.PriorityCritical:
		return "[CRITICAL]"
	case suggest.PriorityHigh:
		return "[HIGH]"
	case suggest.PriorityMedium:
		return "[MEDIUM]"
	case suggest.PriorityLow:
		return "[LOW]"
	default:
		return "[UNKNOWN]"
	}
}

func stylePriority(priority int, label string) string {
	switch priority {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
