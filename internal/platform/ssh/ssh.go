package ssh

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/ec3io/ec3/internal/errdef"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// BastionConfig names the host a connection is tunneled through when the
// target has no public address.
type BastionConfig struct {
	Host string
	Port int
}

// Config holds SSH client configuration.
type Config struct {
	Host string
	Port int
	User string

	// KeyPath locates the PEM private key on disk. PrivateKey, when set,
	// takes precedence and skips the file read.
	KeyPath    string
	PrivateKey []byte

	// Bastion, when set, routes the connection through another host that
	// shares the same user and key.
	Bastion *BastionConfig

	// DialTimeout bounds TCP connection establishment. If zero,
	// defaultDialTimeout is used.
	DialTimeout time.Duration
}

// Client executes commands and transfers files on one remote host.
// The private key is parsed once during construction; connections are
// opened per call.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 && cfg.KeyPath == "" {
		return nil, fmt.Errorf("config needs a private key or key path")
	}

	// Copy config to avoid mutating the caller's struct.
	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.Bastion != nil {
		bastionCopy := *configCopy.Bastion
		if bastionCopy.Port == 0 {
			bastionCopy.Port = defaultPort
		}
		configCopy.Bastion = &bastionCopy
	}

	keyData := configCopy.PrivateKey
	if len(keyData) == 0 {
		data, err := os.ReadFile(configCopy.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key %s: %w", configCopy.KeyPath, err)
		}
		keyData = data
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Host returns the host this client connects to.
func (c *Client) Host() string {
	return c.config.Host
}

// Execute runs a command on the remote host and returns its combined
// output. A non-zero exit is reported as a remote execution error that
// still carries the output. The command itself is never interrupted
// mid-flight; ctx bounds connection establishment.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer conn.close()

	session, err := conn.target.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), errdef.NewRemoteExecution("command failed on %s: %v (output: %s)",
			c.config.Host, err, string(output))
	}
	return string(output), nil
}

// Upload copies a local file to the remote host via SFTP.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.close()

	client, err := sftp.NewClient(conn.target)
	if err != nil {
		return fmt.Errorf("failed to open SFTP session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = client.Close() }()

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s on %s: %w", remotePath, c.config.Host, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", localPath, c.config.Host, err)
	}
	return nil
}

// Download copies a remote file to the local filesystem via SFTP.
func (c *Client) Download(ctx context.Context, remotePath, localPath string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.close()

	client, err := sftp.NewClient(conn.target)
	if err != nil {
		return fmt.Errorf("failed to open SFTP session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = client.Close() }()

	src, err := client.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open %s on %s: %w", remotePath, c.config.Host, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to download %s from %s: %w", remotePath, c.config.Host, err)
	}
	return nil
}

// connection pairs the target client with the bastion client it may be
// tunneled through, so both close together.
type connection struct {
	target  *ssh.Client
	bastion *ssh.Client
}

func (c *connection) close() {
	_ = c.target.Close()
	if c.bastion != nil {
		_ = c.bastion.Close()
	}
}

func (c *Client) connect(ctx context.Context) (*connection, error) {
	clientConfig := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // Nodes are ephemeral, keys generated at boot
		Timeout:         c.config.DialTimeout,
	}
	addr := net.JoinHostPort(c.config.Host, fmt.Sprintf("%d", c.config.Port))

	if c.config.Bastion == nil {
		client, err := dial(ctx, addr, c.config.DialTimeout, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
		}
		return &connection{target: client}, nil
	}

	bastionAddr := net.JoinHostPort(c.config.Bastion.Host, fmt.Sprintf("%d", c.config.Bastion.Port))
	bastion, err := dial(ctx, bastionAddr, c.config.DialTimeout, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bastion %s: %w", bastionAddr, err)
	}

	tunnel, err := bastion.Dial("tcp", addr)
	if err != nil {
		_ = bastion.Close()
		return nil, fmt.Errorf("failed to reach %s through bastion %s: %w", addr, bastionAddr, err)
	}

	conn, chans, reqs, err := ssh.NewClientConn(tunnel, addr, clientConfig)
	if err != nil {
		_ = tunnel.Close()
		_ = bastion.Close()
		return nil, fmt.Errorf("failed SSH handshake with %s through bastion: %w", addr, err)
	}

	return &connection{target: ssh.NewClient(conn, chans, reqs), bastion: bastion}, nil
}

// dial opens the TCP connection under ctx, then completes the SSH
// handshake. ssh.Dial alone would ignore ctx.
func dial(ctx context.Context, addr string, timeout time.Duration, config *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := &net.Dialer{Timeout: timeout}
	tcp, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	conn, chans, reqs, err := ssh.NewClientConn(tcp, addr, config)
	if err != nil {
		_ = tcp.Close()
		return nil, err
	}
	return ssh.NewClient(conn, chans, reqs), nil
}
