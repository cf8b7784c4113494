package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShyamSunder149/portfolio/pkg/config"
	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/report"
	consolefmt "github.com/ShyamSunder149/portfolio/pkg/report/format"
	"github.com/ShyamSunder149/portfolio/pkg/server"
)

// build-time override (e.g. -ldflags "-X main.version=1.2.3")
var version = "dev"

// Global (root-level) flag variables
var (
	flagVerbose bool
	flagDebug   bool
)

// report command flags
type reportFlags struct {
	outputFormat string
	outputFile   string
	tag          string
	noColor      bool
	colWidth     int
	timeout      time.Duration
	failOnError  bool
	jsonIndent   bool
}

var rptFlags reportFlags

// read command flags
type readFlags struct {
	width   int
	style   string
	timeout time.Duration
}

var rdFlags readFlags

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		// If Execute() returns an error, logging may or may not be initialized yet.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root Cobra command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio site server and tools",
		Long: strings.TrimSpace(`
Portfolio - personal site engine

Serves a portfolio page hydrated from static JSON collections, markdown
articles and a repository provider, and reports on the loaded content from the
terminal.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (info) logging")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging (overrides --verbose)")
	cmd.Version = version

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newVersionCmd prints version info (simple helper).
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Portfolio version: %s\n", version)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <config-file>",
		Short: "Serve the portfolio over HTTP",
		Long: strings.TrimSpace(`
Serve the portfolio page. Every request loads a fresh page; ?tag=<tag> filters
the blog and ?article=<file> opens an article. With content.watch enabled the
content cache is dropped whenever files under content.dir change.

Examples:
  portfolio serve portfolio.yaml
  PORTFOLIO_SERVER_ADDR=:9000 portfolio serve portfolio.toml
`),
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}
}

func newReportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "report <config-file>",
		Short: "Load the page once and report every panel",
		Long: strings.TrimSpace(`
Load the page once, as a browser would, and report the content and load
outcome of every panel.

Formats:
  console (default) - adaptive terminal tables
  json              - machine-readable JSON

Examples:
  portfolio report portfolio.yaml
  portfolio report portfolio.yaml --tag go
  portfolio report portfolio.yaml --format json --json-indent
`),
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	c.Flags().StringVarP(&rptFlags.outputFormat, "format", "f", "console", "Output format: console|json")
	c.Flags().StringVarP(&rptFlags.outputFile, "out", "o", "", "Write output to file instead of stdout")
	c.Flags().StringVarP(&rptFlags.tag, "tag", "t", "", "Filter the blog by tag before reporting")
	c.Flags().BoolVar(&rptFlags.noColor, "no-color", false, "Disable ANSI colors (console format)")
	c.Flags().IntVar(&rptFlags.colWidth, "col-width", 0, "Max width of table columns (console format; 0=auto)")
	c.Flags().DurationVar(&rptFlags.timeout, "timeout", time.Minute, "Timeout for loading the page")
	c.Flags().BoolVar(&rptFlags.failOnError, "fail-on-error", false, "Exit with non-zero status if any panel failed to load")
	c.Flags().BoolVar(&rptFlags.jsonIndent, "json-indent", false, "Pretty-print JSON output")

	return c
}

func newReadCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "read <config-file> <article-file>",
		Short: "Render one blog article in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE:  runRead,
	}

	c.Flags().IntVar(&rdFlags.width, "width", 0, "Word wrap width (0=terminal width)")
	c.Flags().StringVar(&rdFlags.style, "style", "", "Glamour style (overrides render.terminal_style)")
	c.Flags().DurationVar(&rdFlags.timeout, "timeout", 30*time.Second, "Timeout for fetching the article")

	return c
}

func initLogging() {
	var level slog.Level
	switch {
	case flagDebug:
		level = slog.LevelDebug
	case flagVerbose:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging initialized", "level", level.String())
}

func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("Configuration loaded",
		"configFile", configFile,
		"provider", cfg.Repository.Provider,
		"owner", cfg.Repository.Owner,
		"token", config.RedactToken(cfg.Repository.Token))
	return cfg, nil
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}

	deps, err := newDeps(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Content.Watch && cfg.Content.BaseURL == "" {
		watcher, err := content.NewWatcher(cfg.Content.Dir, deps.cache, 250*time.Millisecond)
		if err != nil {
			return fmt.Errorf("failed to watch content: %w", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Content watcher stopped", "error", err)
			}
		}()
	}

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		StaticDir:       cfg.Server.StaticDir,
		RequestTimeout:  cfg.Server.RequestTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Profile: server.Profile{
			Name:  cfg.Profile.Name,
			Title: cfg.Profile.Title,
			About: cfg.Profile.About,
		},
	}, deps.siteOptions(cfg))
	return srv.Run(ctx)
}

// runReport executes the core logic for report.
func runReport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	deps, err := newDeps(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rptFlags.timeout)
	defer cancel()

	generator := report.NewGenerator(deps.siteOptions(cfg))
	rpt, err := generator.Generate(ctx, rptFlags.tag)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	var outWriter io.WriteCloser = nopCloser{Writer: cmd.OutOrStdout()}
	if rptFlags.outputFile != "" {
		if err := os.MkdirAll(filepath.Dir(rptFlags.outputFile), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(rptFlags.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		outWriter = f
	}
	defer outWriter.Close()

	switch strings.ToLower(rptFlags.outputFormat) {
	case "console":
		if err := renderConsole(rpt, outWriter); err != nil {
			return fmt.Errorf("failed to render console output: %w", err)
		}
	case "json":
		if err := renderJSON(rpt, outWriter); err != nil {
			return fmt.Errorf("failed to render JSON output: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", rptFlags.outputFormat)
	}

	slog.Info("Report complete",
		"panels", len(rpt.Panels),
		"errors", len(rpt.GetErrors()),
		"duration", time.Since(start).String())

	if rptFlags.failOnError && rpt.HasErrors() {
		return errors.New("one or more panels failed (fail-on-error enabled)")
	}
	return nil
}

// runRead renders one article for the terminal.
func runRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	deps, err := newDeps(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rdFlags.timeout)
	defer cancel()

	resource := path.Join(cfg.Content.ArticleDir, args[1])
	text, err := content.FetchText(ctx, deps.source, resource)
	if err != nil {
		return fmt.Errorf("failed to load article: %w", err)
	}

	style := cfg.Render.TerminalStyle
	if rdFlags.style != "" {
		style = rdFlags.style
	}
	return consolefmt.RenderArticle([]byte(text), cmd.OutOrStdout(), consolefmt.ArticleOptions{
		Style: style,
		Width: rdFlags.width,
	})
}

// renderConsole renders the report using the console formatter.
func renderConsole(rpt *report.Report, w io.Writer) error {
	fmt.Fprintf(w, "Portfolio Report (format=console)\n\n")

	formatter := consolefmt.NewConsoleFormatter()
	formatter.EnableColors = !rptFlags.noColor
	if rptFlags.colWidth > 0 {
		formatter.MaxColWidth = rptFlags.colWidth
	}
	return formatter.Render(rpt, w)
}

// jsonOutput is the structured JSON shape we emit (allows adding summary without
// changing core report.Report struct).
type jsonOutput struct {
	Version string `json:"cliVersion"`
	*report.Report
	Summary jsonSummary `json:"summary"`
}

type jsonSummary struct {
	PanelCount   int `json:"panelCount"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// renderJSON marshals the report to JSON with additional metadata.
func renderJSON(rpt *report.Report, w io.Writer) error {
	errCount := len(rpt.GetErrors())
	payload := jsonOutput{
		Version: version,
		Report:  rpt,
		Summary: jsonSummary{
			PanelCount:   len(rpt.Panels),
			SuccessCount: len(rpt.Panels) - errCount,
			ErrorCount:   errCount,
		},
	}

	var data []byte
	var err error
	if rptFlags.jsonIndent {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
	return nil
}

type nopCloser struct {
	io.Writer
}

// Close does nothing; stdout should not be closed.
func (nopCloser) Close() error { return nil }
