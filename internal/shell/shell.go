package shell

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ssh"
	"github.com/ec3io/ec3/internal/util/async"
)

// maxConnsPerGroup caps how many SSH connections one fan-out batch opens
// at the same time in bastion mode. Tunneled worker connections all land
// on the master's sshd, which starts dropping unauthenticated sessions
// past roughly this many (MaxStartups).
const maxConnsPerGroup = 10

// Options configures a ClusterShell.
type Options struct {
	// Username is the login user on every node.
	Username string
	// MasterIP is the master's reachable address.
	MasterIP string
	// WorkerIPs are the worker addresses in node order. In bastion mode
	// these are private addresses reached through the master.
	WorkerIPs []string

	// KeyPath locates the PEM private key on disk. PrivateKey, when set,
	// takes precedence.
	KeyPath    string
	PrivateKey []byte

	// UseBastion tunnels worker connections through the master and
	// enables grouped fan-out.
	UseBastion bool
}

// Result is the outcome of one command on one host. Output holds the
// combined stdout and stderr even when Err is set.
type Result struct {
	Host   string
	Output string
	Err    error
}

// Failed returns the subset of results whose command did not succeed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// ClusterShell executes commands and file transfers against a fixed set
// of hosts, the master first. It holds no open connections; each
// operation connects on demand.
type ClusterShell struct {
	master     ssh.Executor
	workers    []ssh.Executor
	useBastion bool
}

// newExecutor builds the per-host session. Tests substitute fakes.
var newExecutor = func(cfg *ssh.Config) (ssh.Executor, error) {
	return ssh.NewClient(cfg)
}

// New validates the options and prepares one executor per host. No
// connection is opened yet; an unreachable host surfaces on first use.
func New(opts Options) (*ClusterShell, error) {
	if opts.Username == "" {
		return nil, errdef.NewValidation("shell needs a username")
	}
	if opts.MasterIP == "" {
		return nil, errdef.NewValidation("shell needs a master address")
	}
	if opts.KeyPath == "" && len(opts.PrivateKey) == 0 {
		return nil, errdef.NewValidation("shell needs a private key or key path")
	}

	master, err := newExecutor(&ssh.Config{
		Host:       opts.MasterIP,
		User:       opts.Username,
		KeyPath:    opts.KeyPath,
		PrivateKey: opts.PrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare master connection: %w", err)
	}

	var bastion *ssh.BastionConfig
	if opts.UseBastion {
		bastion = &ssh.BastionConfig{Host: opts.MasterIP}
	}

	workers := make([]ssh.Executor, 0, len(opts.WorkerIPs))
	for _, ip := range opts.WorkerIPs {
		worker, err := newExecutor(&ssh.Config{
			Host:       ip,
			User:       opts.Username,
			KeyPath:    opts.KeyPath,
			PrivateKey: opts.PrivateKey,
			Bastion:    bastion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to prepare connection to %s: %w", ip, err)
		}
		workers = append(workers, worker)
	}

	return &ClusterShell{
		master:     master,
		workers:    workers,
		useBastion: opts.UseBastion,
	}, nil
}

// Hosts returns every host address, master first.
func (s *ClusterShell) Hosts() []string {
	hosts := make([]string, 0, len(s.workers)+1)
	hosts = append(hosts, s.master.Host())
	for _, worker := range s.workers {
		hosts = append(hosts, worker.Host())
	}
	return hosts
}

// RunOnMaster executes a command on the master only. The returned error
// mirrors Result.Err.
func (s *ClusterShell) RunOnMaster(ctx context.Context, command string) (Result, error) {
	output, err := s.master.Execute(ctx, command)
	return Result{Host: s.master.Host(), Output: output, Err: err}, err
}

// RunOnAll executes a command on the master and every worker. A failing
// host is recorded in its Result and never stops the remaining hosts.
//
// Direct mode runs the whole cluster as one concurrent batch. Bastion
// mode with enough workers to crowd the tunnel runs sequential groups of
// at most maxConnsPerGroup connections; the master is folded into the
// last group when it has spare capacity and otherwise runs first on its
// own. Results are concatenated in batch order.
func (s *ClusterShell) RunOnAll(ctx context.Context, command string) []Result {
	if !s.grouped() {
		return s.fanout(ctx, s.everyone(), command)
	}

	groups, masterAlone := s.batches()
	results := make([]Result, 0, len(s.workers)+1)
	if masterAlone {
		res, _ := s.RunOnMaster(ctx, command)
		results = append(results, res)
	}
	for _, group := range groups {
		results = append(results, s.fanout(ctx, group, command)...)
	}
	return results
}

// grouped reports whether fan-out must be split into sequential groups.
// The master's own connection counts against the cap, hence the -1.
func (s *ClusterShell) grouped() bool {
	return s.useBastion && len(s.workers) >= maxConnsPerGroup-1
}

// batches chunks the workers into groups of at most maxConnsPerGroup.
// The master joins the last group when that group is below the cap;
// masterAlone reports that it would not fit and must run separately.
func (s *ClusterShell) batches() (groups [][]ssh.Executor, masterAlone bool) {
	for start := 0; start < len(s.workers); start += maxConnsPerGroup {
		end := min(start+maxConnsPerGroup, len(s.workers))
		groups = append(groups, append([]ssh.Executor(nil), s.workers[start:end]...))
	}
	if n := len(groups); n > 0 && len(groups[n-1]) < maxConnsPerGroup {
		groups[n-1] = append(groups[n-1], s.master)
		return groups, false
	}
	return groups, true
}

// everyone returns all executors, master first.
func (s *ClusterShell) everyone() []ssh.Executor {
	return append([]ssh.Executor{s.master}, s.workers...)
}

// fanout runs a command on each executor concurrently and collects one
// result per host in completion order.
func (s *ClusterShell) fanout(ctx context.Context, hosts []ssh.Executor, command string) []Result {
	tasks := make([]async.Task[string], 0, len(hosts))
	for _, host := range hosts {
		tasks = append(tasks, async.Task[string]{
			Name: host.Host(),
			Func: func(ctx context.Context) (string, error) {
				return host.Execute(ctx, command)
			},
		})
	}

	results := make([]Result, 0, len(tasks))
	for _, res := range async.Collect(ctx, tasks) {
		results = append(results, Result{Host: res.Name, Output: res.Value, Err: res.Err})
	}
	return results
}
