package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/shell"
)

// RunOptions carries the run command's flags.
type RunOptions struct {
	ConfigPath string
	All        bool
}

// Run executes a shell command on the master, or on every node with
// All. Output is printed per host; the returned error is non-nil when
// the command failed anywhere, so the process exit status reflects
// remote failures.
func Run(ctx context.Context, opts RunOptions, command string) error {
	cfg, api, err := loadCluster(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	sh, err := newShell(ctx, cfg, api)
	if err != nil {
		return err
	}

	if !opts.All {
		res, err := sh.RunOnMaster(ctx, command)
		fmt.Print(formatResult(res))
		return err
	}

	results := sh.RunOnAll(ctx, command)
	for _, res := range results {
		fmt.Print(formatResult(res))
	}
	if failed := shell.Failed(results); len(failed) > 0 {
		return errdef.NewRemoteExecution("command failed on %d of %d hosts", len(failed), len(results))
	}
	return nil
}

// formatResult renders one host's output block. Output stays unstyled
// so it can be piped and grepped.
func formatResult(res shell.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s\n", res.Host)
	if res.Output != "" {
		b.WriteString(res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			b.WriteString("\n")
		}
	}
	if res.Err != nil {
		fmt.Fprintf(&b, "error: %v\n", res.Err)
	}
	return b.String()
}
