package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ec3io/ec3/internal/platform/s3"
)

// Example returns a starter configuration for ec3 init. It still needs a
// real key pair name before use.
func Example() *Config {
	return &Config{
		ClusterName:  "demo",
		Region:       "us-east-1",
		InstanceType: DefaultInstanceType,
		NodeCount:    DefaultNodeCount,
		KeyPair:      "my-keypair",
		EBS: EBSConfig{
			Type:       DefaultEBSType,
			SizeGiB:    DefaultEBSSizeGiB,
			Iops:       DefaultEBSIops,
			Throughput: DefaultEBSThroughput,
		},
		LaunchTimeoutSecs: DefaultLaunchTimeoutSecs,
		RetryDelaySecs:    DefaultRetryDelaySecs,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Write stores the configuration as a local YAML file.
func (c *Config) Write(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Store writes the configuration to location, a local path or an
// s3://bucket/key URL.
func (c *Config) Store(ctx context.Context, location string, opts ...Option) error {
	if !s3.IsURL(location) {
		return c.Write(location)
	}

	bucket, key, err := s3.ParseURL(location)
	if err != nil {
		return err
	}
	store, err := newLocationOptions(opts).resolveStore(ctx)
	if err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return store.StoreObject(ctx, bucket, key, data)
}

// Exists reports whether a configuration is already present at location,
// a local path or an s3://bucket/key URL.
func Exists(ctx context.Context, location string, opts ...Option) (bool, error) {
	if !s3.IsURL(location) {
		_, err := os.Stat(location)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	bucket, key, err := s3.ParseURL(location)
	if err != nil {
		return false, err
	}
	store, err := newLocationOptions(opts).resolveStore(ctx)
	if err != nil {
		return false, err
	}
	return store.ObjectExists(ctx, bucket, key)
}
