package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/pagedrift"
)

// Run executes the compare command.
func (c *CompareCmd) Run(deps *Dependencies) error {
	pair := pagedrift.Pair{Draft: c.Draft, URL: c.URL}
	if err := pair.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagedrift.ErrorMessage(err))
		return err
	}

	out := deps.Out
	if out == "" {
		out = filepath.Dir(c.Draft)
	}

	summary, err := deps.runner(out).Run(deps.Ctx, []pagedrift.Pair{pair}, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	result := summary.Results[0]
	if result.Failed() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", failureText(&result))
		return result.Err
	}

	fmt.Fprint(deps.Stdout, pagedrift.FormatMarkdown(result.Comparison))
	fmt.Fprintf(deps.Stdout, "Report saved to %s\n", filepath.Join(out, result.ReportPath))
	return nil
}
