package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zjrosen/splitdiff/internal/config"
	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/ui/diffview"
)

// ErrDifferences is returned by print when the inputs differ, so that the
// process exits 1 like diff(1).
var ErrDifferences = errors.New("inputs differ")

const defaultPrintWidth = 120

var (
	printFormat      string
	printNoColor     bool
	printWidth       int
	printChangesOnly bool
	printContext     int
)

var printCmd = &cobra.Command{
	Use:   "print ORIGINAL MODIFIED",
	Short: "Print the side-by-side diff of two files",
	Long: `Print renders the diff of two files to stdout without starting the TUI.

The exit status is 0 when the files are identical and 1 when they differ.

Examples:
  splitdiff print old.yaml new.yaml
  splitdiff print --changes-only --context 1 a.txt b.txt
  splitdiff print --format json a.json b.json | jq '.stats'`,
	Args: cobra.ExactArgs(2),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().StringVar(&printFormat, "format", "table", "output format: table or json")
	printCmd.Flags().BoolVar(&printNoColor, "no-color", false, "disable colors and syntax highlighting")
	printCmd.Flags().IntVar(&printWidth, "width", 0, "table width (default: terminal width, or 120)")
	printCmd.Flags().BoolVar(&printChangesOnly, "changes-only", false, "hide unchanged rows outside the context window")
	printCmd.Flags().IntVar(&printContext, "context", -1, "unchanged rows kept around changes (default: from config)")
}

// printOutput is the JSON document written by print --format json.
type printOutput struct {
	Original string     `json:"original"`
	Modified string     `json:"modified"`
	Stats    diff.Stats `json:"stats"`
	Rows     []diff.Row `json:"rows"`
}

func runPrint(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if printFormat != "table" && printFormat != "json" {
		return fmt.Errorf("--format must be table or json, got %q", printFormat)
	}
	radius := cfg.Diff.ContextRadius
	if printContext >= 0 {
		radius = printContext
	}

	var texts [2]string
	for i, path := range args {
		data, err := os.ReadFile(path) //nolint:gosec // G304: paths from the command line
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		texts[i] = string(data)
	}

	tracer, shutdown, err := setupTracing(cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdown()
	engine, err := newEngine(cfg.Diff, tracer)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	result := engine.Compute(context.Background(), texts[0], texts[1])
	log.Info(log.CatDiff, "printed diff", "format", printFormat, "stats", result.Stats.String())

	out := cmd.OutOrStdout()
	switch printFormat {
	case "json":
		rows := result.Rows
		if printChangesOnly {
			rows = diff.FilterChangesOnly(rows, radius)
		}
		if rows == nil {
			rows = []diff.Row{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(printOutput{
			Original: args[0],
			Modified: args[1],
			Stats:    result.Stats,
			Rows:     rows,
		}); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	default:
		if printNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		if result.Identical() {
			_, _ = fmt.Fprintln(out, diffview.IdenticalMessage)
			break
		}
		table := diffview.Render(result, diffview.Config{
			ContextRadius:  radius,
			ChangesOnly:    printChangesOnly,
			LineNumbers:    cfg.UI.LineNumbers,
			Highlight:      cfg.UI.Highlight && !printNoColor,
			HighlightStyle: cfg.UI.HighlightStyle,
		}, language.Detect(args[0]), language.Detect(args[1]), tableWidth())
		_, _ = fmt.Fprintln(out, table)
	}

	if result.Stats.HasChanges() {
		cmd.SilenceErrors = true
		return ErrDifferences
	}
	return nil
}

// tableWidth resolves --width, falling back to the terminal width.
func tableWidth() int {
	if printWidth > 0 {
		return printWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 { //nolint:gosec // G115: fd fits in int
		return w
	}
	return defaultPrintWidth
}
