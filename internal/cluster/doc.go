// Package cluster orchestrates the lifecycle of a named group of EC2
// instances: sequential launch with per-node retry, rollback of partial
// launches, idempotent termination and address lookup.
//
// A Cluster owns one Node handle per member. Node names, the
// intra-cluster security group and the optional placement group all
// derive from the cluster name, which therefore acts as the idempotency
// key for every operation.
package cluster
