package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flakescan/internal/config"
	"github.com/blackwell-systems/flakescan/internal/output"
	"github.com/blackwell-systems/flakescan/internal/report"
	"github.com/blackwell-systems/flakescan/internal/scanner"
	"github.com/blackwell-systems/flakescan/internal/suggest"
)

var (
	scanFlagOut     string
	scanFlagFormat  string
	scanFlagSARIF   bool
	scanFlagWorkers int
	scanFlagExclude []string
)

// highCountThreshold is the per-detector count above which the scan table
// renders the count as an error.
const highCountThreshold = 10

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a test repository and write the report artifacts",
	Long: `Scan walks the tree rooted at path (default: current directory),
skipping node_modules and .git, classifies test and page-object files, and
counts every detector match. It writes repo_summary.txt and
repo_issues.json into the scanned root, or into --out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFlagOut, "out", "", "Directory for the artifacts (default: the scanned root)")
	scanCmd.Flags().StringVar(&scanFlagFormat, "format", "", "Structured report format: json or yaml (default from config)")
	scanCmd.Flags().BoolVar(&scanFlagSARIF, "sarif", false, "Also write a SARIF 2.1.0 log of the findings")
	scanCmd.Flags().IntVar(&scanFlagWorkers, "workers", 0, "Files scanned concurrently (default from config)")
	scanCmd.Flags().StringArrayVar(&scanFlagExclude, "exclude", nil, "Glob of relative paths to skip (can be repeated)")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	env, err := loadAppEnv(cmd)
	if err != nil {
		return err
	}
	applyScanFlags(env.cfg)
	if err := env.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Keep stdout machine-readable under --json.
	progress := cmd.OutOrStdout()
	if flagJSON {
		progress = cmd.ErrOrStderr()
	}

	res, _, err := scanRepo(ctx, pathArg(args), scanFlagOut, env.cfg, env.logger, progress)
	if err != nil {
		return err
	}

	if flagJSON {
		return report.Encode(cmd.OutOrStdout(), res, report.FormatJSON)
	}
	renderScan(cmd.OutOrStdout(), res)
	return nil
}

// applyScanFlags overlays explicitly set scan flags onto cfg.
func applyScanFlags(cfg *config.Config) {
	if scanFlagFormat != "" {
		cfg.Report.Format = scanFlagFormat
	}
	if scanFlagSARIF {
		cfg.Report.SARIF = true
	}
	if scanFlagWorkers > 0 {
		cfg.Scan.Workers = scanFlagWorkers
	}
	cfg.Scan.Exclude = append(cfg.Scan.Exclude, scanFlagExclude...)
}

func scanOptions(cfg *config.Config, logger hclog.Logger) scanner.Options {
	return scanner.Options{
		Workers: cfg.Scan.Workers,
		Exclude: cfg.Scan.Exclude,
		Logger:  logger.Named("scanner"),
	}
}

// scanRepo runs the scan pipeline: walk, render, write. Progress lines go
// to progress. Nothing is written when the scan itself fails.
func scanRepo(ctx context.Context, root, outDir string, cfg *config.Config, logger hclog.Logger, progress io.Writer) (*scanner.Result, report.Artifacts, error) {
	fmt.Fprintf(progress, "Scanning repo: %s\n", root)

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return nil, report.Artifacts{}, err
	}
	if outDir == "" {
		outDir = root
	}
	w := report.Writer{
		Dir:         outDir,
		SummaryFile: cfg.Report.SummaryFile,
		IssuesFile:  cfg.Report.IssuesFile,
		Format:      format,
		SARIF:       cfg.Report.SARIF,
	}

	opts := scanOptions(cfg, logger)
	opts.SkipFiles = artifactPaths(root, w)
	res, err := scanner.Scan(ctx, root, opts)
	if err != nil {
		return nil, report.Artifacts{}, fmt.Errorf("scanning %s: %w", root, err)
	}
	report.Render(res)

	arts, err := w.Write(res)
	if err != nil {
		return nil, arts, err
	}

	fmt.Fprintf(progress, "Wrote: %s\n", arts.Summary)
	fmt.Fprintf(progress, "Wrote: %s\n", arts.Issues)
	if arts.SARIF != "" {
		fmt.Fprintf(progress, "Wrote: %s\n", arts.SARIF)
	}

	logger.Debug("scan complete", "repo", res.RepoName, "files", res.TotalFiles, "tests", len(res.TestFiles))
	return res, arts, nil
}

// artifactPaths returns the slash-separated paths, relative to root, of the
// artifacts w writes when its directory lies inside the scanned tree. A
// rescan must not read the previous run's output.
func artifactPaths(root string, w report.Writer) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	absDir, err := filepath.Abs(w.Dir)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	names := w.Names()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.ToSlash(filepath.Join(rel, name)))
	}
	return paths
}

func renderScan(w io.Writer, res *scanner.Result) {
	fmt.Fprintln(w, output.Section("Scan: "+res.RepoName))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Files scanned"), output.StyleValue.Render(fmt.Sprintf("%d", res.TotalFiles)))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Test files"), output.StyleValue.Render(fmt.Sprintf("%d", len(res.TestFiles))))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Page objects"), output.StyleValue.Render(fmt.Sprintf("%d", len(res.PagesFiles))))

	fmt.Fprintln(w, output.Section("Findings"))
	fmt.Fprintln(w)

	tbl := output.NewTable("Detector", "Count", "Example")
	for _, name := range scanner.DetectorNames() {
		n := res.Count(name)
		if n == 0 {
			continue
		}
		example := ""
		if ex := res.PatternExamples[name]; len(ex) > 0 {
			example = truncate(ex[0].File+": "+ex[0].Snippet, 60)
		}
		count := output.CountStyle(n, highCountThreshold).Render(fmt.Sprintf("%d", n))
		tbl.AddRow(report.PrettyName(name), count, output.StyleMuted.Render(example))
	}
	if n := len(res.DuplicateLoginFiles); n > 0 {
		tbl.AddRow("inline login (files)", output.CountStyle(n, highCountThreshold).Render(fmt.Sprintf("%d", n)), "")
	}
	if n := len(res.SuspiciousSelectorsFiles); n > 0 {
		tbl.AddRow("suspicious selectors (files)", output.CountStyle(n, highCountThreshold).Render(fmt.Sprintf("%d", n)), "")
	}

	if tbl.Len() == 0 {
		fmt.Fprintln(w, output.StyleSuccess.Render(" No anti-patterns found."))
		return
	}
	tbl.Fprint(w)

	if suggestions := suggest.NewEngine().Run(res); len(suggestions) > 0 {
		fmt.Fprintln(w, output.Section("Quick suggestions"))
		fmt.Fprintln(w)
		for _, s := range suggestions {
			fmt.Fprintf(w, " %s %s\n", stylePriority(s.Priority, priorityToLabel(s.Priority)), s.Text)
		}
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
