package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/batch"
	"github.com/fwojciec/pagedrift/fs"
	pagedriftslog "github.com/fwojciec/pagedrift/slog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Reader    pagedrift.DocumentReader
	Fetcher   pagedrift.Fetcher
	Extractor pagedrift.Extractor
	Aligner   *pagedrift.Aligner

	Out         string
	Concurrency int
	Rate        float64
}

// runner returns a batch runner writing reports to outDir.
func (d *Dependencies) runner(outDir string) *batch.Runner {
	return &batch.Runner{
		Reader:      d.Reader,
		Fetcher:     d.Fetcher,
		Extractor:   d.Extractor,
		Sink:        pagedriftslog.NewLoggingReportSink(fs.NewWriter(outDir), d.Logger),
		Aligner:     d.Aligner,
		RateLimiter: batch.NewDomainLimiter(d.Rate),
		Concurrency: d.Concurrency,
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Compare CompareCmd `cmd:"" help:"Compare one draft with its live page"`
	Batch   BatchCmd   `cmd:"" help:"Compare every pair listed in a YAML manifest"`

	Out              string        `short:"o" env:"PAGEDRIFT_OUT" type:"path" help:"Directory for reports (default: next to the draft or manifest)"`
	Threshold        float64       `default:"0.9" env:"PAGEDRIFT_THRESHOLD" help:"Similarity needed for a block match"`
	PartialThreshold float64       `default:"0.8" help:"Similarity needed for a sentence fragment match"`
	Region           string        `default:"auto" enum:"auto,readability,trafilatura" help:"Main content detection (auto, readability, trafilatura)"`
	Render           bool          `short:"r" help:"Render pages in a headless browser before extraction"`
	Timeout          time.Duration `short:"t" default:"30s" env:"PAGEDRIFT_TIMEOUT" help:"Fetch timeout per page"`
	Concurrency      int           `short:"c" default:"1" help:"Pairs compared at once"`
	Rate             float64       `default:"1" help:"Requests per second per host (0 disables limiting)"`
	Verbose          bool          `short:"v" help:"Log fetches, extraction and report writes to stderr"`
}

// CompareCmd is the "compare" subcommand.
type CompareCmd struct {
	Draft string `arg:"" type:"path" help:"Draft document (.docx, .md or .txt)"`
	URL   string `arg:"" help:"URL of the published page"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Manifest string `arg:"" type:"existingfile" help:"YAML manifest listing draft/URL pairs"`
}
