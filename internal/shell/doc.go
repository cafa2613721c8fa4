// Package shell runs commands and moves files across every node of a
// cluster at once. It fans out over SSH with one executor per host and,
// in bastion mode, throttles the fan-out into sequential groups so the
// master's sshd is never asked to accept the whole cluster in parallel.
package shell
