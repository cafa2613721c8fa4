// Package naming provides consistent naming functions for cluster resources.
//
// Every resource a cluster owns is named deterministically from the
// cluster name: nodes as {cluster}-node{i}, the intra-cluster security
// group as {cluster}-intracluster-ssh and the placement group as
// {cluster}-placement-group. Deterministic names are what make launch
// idempotency checks and terminate lookups possible without any local
// state file.
package naming
