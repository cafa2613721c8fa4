package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ssh"
	"github.com/ec3io/ec3/internal/util/async"
)

// ipMarkerFile names the per-host marker written by CopyFromAll so a
// collected directory can be traced back to its source machine.
const ipMarkerFile = "ip.txt"

// CopyToMaster uploads a local file to the master.
func (s *ClusterShell) CopyToMaster(ctx context.Context, localPath, remotePath string) error {
	return s.master.Upload(ctx, localPath, remotePath)
}

// CopyFromMaster downloads a file from the master.
func (s *ClusterShell) CopyFromMaster(ctx context.Context, remotePath, localPath string) error {
	return s.master.Download(ctx, remotePath, localPath)
}

// CopyToAll uploads a local file to the same path on every host
// concurrently. Per-host failures are joined into the returned error;
// the remaining hosts are not interrupted. Not available in bastion
// mode, where workers have no direct SFTP route.
func (s *ClusterShell) CopyToAll(ctx context.Context, localPath, remotePath string) error {
	if s.useBastion {
		return errdef.NewNotImplemented("file distribution to all hosts is not supported in bastion mode")
	}

	tasks := make([]async.Task[struct{}], 0, len(s.workers)+1)
	for _, host := range s.everyone() {
		tasks = append(tasks, async.Task[struct{}]{
			Name: host.Host(),
			Func: func(ctx context.Context) (struct{}, error) {
				return struct{}{}, host.Upload(ctx, localPath, remotePath)
			},
		})
	}
	return joinFailures(async.Collect(ctx, tasks))
}

// CopyFromAll downloads the same remote file from every host into
// localDir, one subdirectory per host named by node index: 0 is the
// master, 1..N the workers. Each subdirectory gets an ip.txt marker with
// the source address. localDir is created if missing; an existing
// regular file at that path is rejected before any transfer starts.
// Not available in bastion mode.
func (s *ClusterShell) CopyFromAll(ctx context.Context, remotePath, localDir string) error {
	if s.useBastion {
		return errdef.NewNotImplemented("file collection from all hosts is not supported in bastion mode")
	}

	if info, err := os.Stat(localDir); err == nil && !info.IsDir() {
		return errdef.NewValidation("%s exists and is not a directory", localDir)
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", localDir, err)
	}

	tasks := make([]async.Task[struct{}], 0, len(s.workers)+1)
	for i, host := range s.everyone() {
		hostDir := filepath.Join(localDir, strconv.Itoa(i))
		tasks = append(tasks, async.Task[struct{}]{
			Name: host.Host(),
			Func: func(ctx context.Context) (struct{}, error) {
				return struct{}{}, collect(ctx, host, remotePath, hostDir)
			},
		})
	}
	return joinFailures(async.Collect(ctx, tasks))
}

// collect pulls remotePath from one host into hostDir. The ip.txt
// marker is written first so a partially collected directory still
// names its source.
func collect(ctx context.Context, host ssh.Executor, remotePath, hostDir string) error {
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", hostDir, err)
	}
	marker := filepath.Join(hostDir, ipMarkerFile)
	if err := os.WriteFile(marker, []byte(host.Host()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", marker, err)
	}
	return host.Download(ctx, remotePath, filepath.Join(hostDir, path.Base(remotePath)))
}

// joinFailures folds per-host transfer failures into one error, each
// prefixed with its host.
func joinFailures(results []async.Result[struct{}]) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}
