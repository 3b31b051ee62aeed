package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/difflib"
	"github.com/fwojciec/pagedrift/docx"
	"github.com/fwojciec/pagedrift/fs"
	"github.com/fwojciec/pagedrift/goldmark"
	"github.com/fwojciec/pagedrift/goquery"
	pagedrifthttp "github.com/fwojciec/pagedrift/http"
	"github.com/fwojciec/pagedrift/readability"
	"github.com/fwojciec/pagedrift/rod"
	pagedriftslog "github.com/fwojciec/pagedrift/slog"
	"github.com/fwojciec/pagedrift/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher overrides the fetcher selected by flags. Used by tests.
	Fetcher pagedrift.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagedrift"),
		kong.Description("Compare draft documents with their published webpages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagedrift --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	deps.Logger = logger

	fetcher := m.Fetcher
	if fetcher == nil {
		if cli.Render {
			rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = rodFetcher
		} else {
			fetcher = pagedrifthttp.NewFetcher(pagedrifthttp.WithTimeout(cli.Timeout))
		}
		defer fetcher.Close()
	}

	deps.Fetcher = pagedriftslog.NewLoggingFetcher(fetcher, logger)
	deps.Extractor = pagedriftslog.NewLoggingExtractor(newExtractor(cli.Region), logger)
	deps.Reader = pagedriftslog.NewLoggingDocumentReader(newDocumentReader(), logger)
	deps.Aligner = &pagedrift.Aligner{
		Similarity:       difflib.Ratio,
		Threshold:        cli.Threshold,
		PartialThreshold: cli.PartialThreshold,
	}
	deps.Out = cli.Out
	deps.Concurrency = cli.Concurrency
	deps.Rate = cli.Rate

	return kongCtx.Run(deps)
}

// newExtractor returns the HTML extractor for a --region value. The
// library-backed strategies fall back to the selector regions when they
// find nothing.
func newExtractor(region string) *goquery.Extractor {
	switch region {
	case "readability":
		return goquery.NewExtractor(goquery.WithRegions(append([]goquery.Region{readability.NewRegion()}, goquery.DefaultRegions()...)...))
	case "trafilatura":
		return goquery.NewExtractor(goquery.WithRegions(append([]goquery.Region{trafilatura.NewRegion()}, goquery.DefaultRegions()...)...))
	default:
		return goquery.NewExtractor()
	}
}

// newDocumentReader returns a reader for every supported draft format.
func newDocumentReader() *documentReader {
	markdown := goldmark.NewReader()
	text := fs.NewTextReader()
	return &documentReader{
		byExt: map[string]pagedrift.DocumentReader{
			".docx":     docx.NewReader(),
			".md":       markdown,
			".markdown": markdown,
			".txt":      text,
		},
	}
}
