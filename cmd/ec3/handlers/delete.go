package handlers

import (
	"context"
	"log"

	"github.com/ec3io/ec3/internal/cluster"
)

// Delete terminates the cluster and removes its shared resources. With
// fast the handler returns as soon as the terminate calls are accepted
// and leaves the placement group behind.
func Delete(ctx context.Context, configPath string, fast bool) error {
	cfg, api, err := loadCluster(ctx, configPath)
	if err != nil {
		return err
	}

	c := newCluster(cfg, api, cluster.WithObserver(cluster.LogObserver{}))
	if err := c.Terminate(ctx, fast); err != nil {
		return err
	}

	if fast {
		log.Printf("Cluster %s is shutting down; the placement group was kept", cfg.ClusterName)
	} else {
		log.Printf("Cluster %s deleted", cfg.ClusterName)
	}
	return nil
}
