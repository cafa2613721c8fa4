package naming

import "fmt"

// Naming functions for cluster resources.
// Two clusters with the same name collide on every resource below, which
// is what makes the name an idempotency key.

// Node returns the unique name of the i-th cluster member. Indexes are
// 1-based; index 1 is the master.
func Node(cluster string, index int) string {
	return fmt.Sprintf("%s-node%d", cluster, index)
}

// SecurityGroup returns the name of the intra-cluster security group.
func SecurityGroup(cluster string) string {
	return fmt.Sprintf("%s-intracluster-ssh", cluster)
}

// PlacementGroup returns the name of the cluster placement group.
func PlacementGroup(cluster string) string {
	return fmt.Sprintf("%s-placement-group", cluster)
}
