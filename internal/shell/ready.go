package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ec3io/ec3/internal/errdef"
)

const (
	// readyProbe is the trivial command that proves sshd is up and
	// executing for the login user.
	readyProbe = "hostname"
	// readyInterval is the pause between probe rounds.
	readyInterval = time.Second
)

// WaitForReady probes every host with a trivial command until all of
// them answer or the timeout elapses. Instances accept TCP on port 22
// well before sshd authenticates, so a plain port check is not enough.
// On timeout the returned error carries the last round's per-host
// failures.
func (s *ClusterShell) WaitForReady(ctx context.Context, timeout time.Duration) error {
	start := time.Now()
	for {
		failures := Failed(s.RunOnAll(ctx, readyProbe))
		if len(failures) == 0 {
			return nil
		}

		if time.Since(start)+readyInterval > timeout {
			errs := make([]error, 0, len(failures))
			for _, res := range failures {
				errs = append(errs, fmt.Errorf("%s: %w", res.Host, res.Err))
			}
			return errdef.NewTimeout("cluster not reachable after %s: %v", timeout, errors.Join(errs...))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyInterval):
		}
	}
}
