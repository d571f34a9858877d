package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sensemill/logweave/internal/catalog"
	"github.com/sensemill/logweave/internal/config"
	"github.com/sensemill/logweave/internal/logging"
	"github.com/sensemill/logweave/internal/output"
	"github.com/sensemill/logweave/internal/reader"
	"github.com/sensemill/logweave/internal/registry"
	"github.com/sensemill/logweave/pkg/logweave"
)

var (
	flagTemplates string
	flagInput     string
	flagBoundary  string
	flagLookback  int
	flagTopK      int
	flagMatcher   string
	flagFold      bool
	flagWatch     bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a log stream into structured NDJSON records",
	Long: `Parse reads log records from a file or stdin, matches each against the
template table, and writes one NDJSON object per matched record mapping
event type ids to resolved dominance-context values. Records matching no
template produce no output.`,
}

func init() {
	parseCmd.RunE = runParse
	parseCmd.Flags().StringVarP(&flagTemplates, "templates", "t", "", "CSV template table (required)")
	parseCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input file (default: stdin)")
	parseCmd.Flags().StringVar(&flagBoundary, "boundary", "", "record-boundary pattern (default: newline-delimited)")
	parseCmd.Flags().IntVar(&flagLookback, "lookback", 0, "prior records inspected per resolution step")
	parseCmd.Flags().IntVar(&flagTopK, "top-k", 0, "events retained per record")
	parseCmd.Flags().StringVar(&flagMatcher, "matcher", "", "candidate engine: literal or regex")
	parseCmd.Flags().BoolVar(&flagFold, "fold-bindings", true, "union dominator bindings into resolved values")
	parseCmd.Flags().BoolVar(&flagWatch, "watch", false, "reload the template table when it changes")
	_ = parseCmd.MarkFlagRequired("templates")
	rootCmd.AddCommand(parseCmd)
}

// applyParseFlags overlays explicitly set parse flags onto cfg.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd != parseCmd {
		return
	}
	f := cmd.Flags()
	if f.Changed("boundary") {
		cfg.Input.RecordBoundary = flagBoundary
	}
	if f.Changed("lookback") {
		cfg.Engine.Lookback = flagLookback
	}
	if f.Changed("top-k") {
		cfg.Engine.TopK = flagTopK
	}
	if f.Changed("matcher") {
		cfg.Engine.Matcher = flagMatcher
	}
	if f.Changed("fold-bindings") {
		cfg.Engine.FoldBindings = flagFold
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(true, logging.ParseLevel(cfg.Logging.Level))

	parser, err := newParser(cfg)
	if err != nil {
		return err
	}
	if err := parser.LoadCatalog(flagTemplates); err != nil {
		return err
	}

	in := os.Stdin
	if flagInput != "" {
		f, err := os.Open(flagInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	rec, err := reader.New(in, cfg.Input.RecordBoundary)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	if flagWatch {
		go func() {
			err := catalog.Watch(ctx, flagTemplates, func(rows []registry.Row) error {
				return parser.Replace(rows)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("template table watch stopped", "error", err)
			}
		}()
	}

	return stream(ctx, parser, rec, output.NewWriter(os.Stdout))
}

// stream runs the parse loop until end of input or cancellation, then
// logs the observable counters.
func stream(ctx context.Context, parser *logweave.Parser, rec *reader.Reader, out *output.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			break
		}
		msg, err := rec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		resolved, err := parser.Parse(msg)
		if err != nil {
			return err
		}
		if len(resolved) == 0 {
			continue
		}
		if err := out.Write(output.FromResolved(resolved)); err != nil {
			return err
		}
	}
	stats := parser.Stats()
	slog.Info("parse finished",
		"parsed", stats.Parsed,
		"unmatched", stats.Unmatched,
		"rejected_candidates", stats.Rejected)
	return nil
}

func newParser(cfg config.Config) (*logweave.Parser, error) {
	return logweave.New(
		logweave.WithPlaceholderSyntax(cfg.Engine.Placeholder),
		logweave.WithLookback(cfg.Engine.Lookback),
		logweave.WithTopK(cfg.Engine.TopK),
		logweave.WithRetention(cfg.Engine.Retention),
		logweave.WithFoldBindings(cfg.Engine.FoldBindings),
		logweave.WithMatcher(cfg.Engine.Matcher),
	)
}
