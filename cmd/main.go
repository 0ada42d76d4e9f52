package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bryan-cox/timeledger/internal/clipboard"
	"github.com/bryan-cox/timeledger/internal/forecast"
	"github.com/bryan-cox/timeledger/internal/loader"
	"github.com/bryan-cox/timeledger/internal/model"
	"github.com/bryan-cox/timeledger/internal/parser"
	"github.com/bryan-cox/timeledger/internal/report"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	logDir      string
	logGlob     string
	showMonthly bool
	showSquash  bool
	copyOutput  bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "timeledger",
		Short: "A CLI tool to compute worked hours and forecasts from plain-text time logs.",
		Long: `TimeLedger reads a directory of plain-text time-log files (one per
project or contract), accumulates the worked hours they record and
projects the hours still missing until the end of the day, the week or
the contract.`,
	}

	// hoursCmd represents the hours command
	hoursCmd = &cobra.Command{
		Use:   "hours",
		Short: "Show total hours and remaining-hours forecasts per log file.",
		Long:  `Sums the worked hours of every log file and, where the file defines the needed settings, prints how many hours are still missing until the end of the day, the week and the contract.`,
		Run:   runHoursCommand,
	}

	// reportCmd represents the report command
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Generate a per-day, per-task hour breakdown.",
		Long:  `Prints a day-by-day breakdown of worked hours with per-task detail and month subtotals for every log file whose period is still open, followed by the forecast lines.`,
		Run:   runReportCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Errors from commands are handled by slog, so we just exit.
		os.Exit(1)
	}
}

func init() {
	// Optional .env file supplies the defaults; absence is fine.
	_ = godotenv.Load()
	defaultDir := os.Getenv("TIMELEDGER_DIR")
	if defaultDir == "" {
		defaultDir = "."
	}

	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&logDir, "dir", defaultDir, "Directory containing the time-log files.")
	rootCmd.PersistentFlags().StringVar(&logGlob, "glob", os.Getenv("TIMELEDGER_GLOB"), "Only process file names matching this pattern.")

	// Add local flags to the 'report' command
	reportCmd.Flags().BoolVar(&showMonthly, "monthly", false, "Include per-task hour summaries at month rollovers.")
	reportCmd.Flags().BoolVar(&showSquash, "squash", false, "Append each file's accumulated total as a single line.")
	reportCmd.Flags().BoolVar(&copyOutput, "copy", false, "Also copy the report to the system clipboard.")

	// Add subcommands to the root command
	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(reportCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

func runHoursCommand(cmd *cobra.Command, args []string) {
	now := time.Now()
	files, err := finalizeDir(logDir, logGlob, now)
	if err != nil {
		slog.Error("failed to load time logs", "error", err, "dir", logDir)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	for _, fd := range files {
		report.PrintTotal(out, fd)
		report.PrintForecasts(out, fd, now)
	}
}

func runReportCommand(cmd *cobra.Command, args []string) {
	now := time.Now()
	files, err := finalizeDir(logDir, logGlob, now)
	if err != nil {
		slog.Error("failed to load time logs", "error", err, "dir", logDir)
		os.Exit(1)
	}

	var b strings.Builder
	for _, fd := range files {
		if report.Ongoing(fd, now) {
			report.PrintDaily(&b, fd, showMonthly)
		}
		report.PrintForecasts(&b, fd, now)
		if showSquash {
			report.PrintTotal(&b, fd)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), b.String())

	if copyOutput {
		if err := clipboard.CopyText(b.String()); err != nil {
			slog.Warn("could not copy report to clipboard", "error", err)
		}
	}
}

// --- Helper Functions ---

// finalizeDir parses and finalizes every log file in the directory.
// A file that fails to parse is reported and skipped; the remaining
// files are still processed.
func finalizeDir(dir string, glob string, now time.Time) ([]*model.FileData, error) {
	paths, err := loader.Dir(dir, glob)
	if err != nil {
		return nil, err
	}

	clock := func() time.Time { return now }
	p := parser.New(clock)
	engine := forecast.New(clock)

	var files []*model.FileData
	for _, path := range paths {
		fd, err := parseFile(p, path)
		if err != nil {
			logParseFailure(path, err)
			continue
		}

		engine.Finalize(fd)
		for _, cfgErr := range fd.Result.Errs {
			slog.Warn("forecast skipped", "file", path, "reason", cfgErr.Error())
		}
		files = append(files, fd)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no readable log files in '%s'", dir)
	}
	return files, nil
}

func parseFile(p *parser.Parser, path string) (*model.FileData, error) {
	lines, err := loader.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, lines)
}

func logParseFailure(path string, err error) {
	var perr *model.ParseError
	if errors.As(err, &perr) {
		slog.Error("skipping unparseable log file",
			"file", path, "line", perr.Line, "text", perr.Text, "error", err)
		return
	}
	slog.Error("skipping unreadable log file", "file", path, "error", err)
}
