package ssh

import (
	"context"
)

// Executor defines the interface for running commands and moving files on
// one remote host.
type Executor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, command string) (string, error)
	// Upload copies a local file to the remote host.
	Upload(ctx context.Context, localPath, remotePath string) error
	// Download copies a remote file to the local filesystem.
	Download(ctx context.Context, remotePath, localPath string) error
	// Host returns the address the executor is bound to.
	Host() string
}

var _ Executor = (*Client)(nil)
