package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/batch"
	"github.com/fwojciec/pagedrift/yaml"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	manifest, err := yaml.Load(c.Manifest)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagedrift.ErrorMessage(err))
		return err
	}

	out := deps.Out
	if out == "" {
		out = manifest.Output
	}
	if out == "" {
		out = filepath.Dir(c.Manifest)
	}

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Comparing %d pairs\n", event.Total)
		case batch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.URL)
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.URL)
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, pagedrift.ErrorMessage(event.Error))
		}
	}

	summary, err := deps.runner(out).Run(deps.Ctx, manifest.Pairs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, "Reports saved.")
	fmt.Fprintln(deps.Stdout)
	for _, line := range summary.Lines() {
		fmt.Fprintln(deps.Stdout, line)
	}
	fmt.Fprintf(deps.Stdout, "\nMarkdown saved to %s\n", filepath.Join(out, summary.ReportPath))
	return nil
}

// failureText describes why a pair could not be compared.
func failureText(result *batch.Result) string {
	if result.Page != nil && result.Page.Failed() {
		return result.Page.Text
	}
	return pagedrift.ErrorMessage(result.Err)
}
