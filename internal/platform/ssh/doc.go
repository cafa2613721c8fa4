// Package ssh executes commands and transfers files on cluster nodes.
//
// Connections are opened per call with key-based authentication. Workers
// without a public address are reached by dialing through the master
// node, which acts as a bastion. File transfers run over SFTP on the same
// connection.
//
// Host key verification is disabled: nodes are ephemeral and their keys
// are generated at first boot.
package ssh
