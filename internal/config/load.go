package config

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ec3io/ec3/internal/platform/s3"
)

// ObjectStore reads and writes configuration objects in a bucket.
type ObjectStore interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
	StoreObject(ctx context.Context, bucket, key string, data []byte) error
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
}

// Option customizes how configuration locations are accessed.
type Option func(*locationOptions)

type locationOptions struct {
	store ObjectStore
}

// WithObjectStore substitutes the S3 store used for s3:// locations
// (useful for testing).
func WithObjectStore(store ObjectStore) Option {
	return func(o *locationOptions) {
		o.store = store
	}
}

func newLocationOptions(opts []Option) *locationOptions {
	o := &locationOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load reads and parses the configuration from a local YAML file or an
// s3://bucket/key object.
func Load(ctx context.Context, location string, opts ...Option) (*Config, error) {
	return LoadWithOverrides(ctx, location, nil, opts...)
}

// LoadWithOverrides loads the configuration and then applies overrides on
// top. Override keys use the same names as the YAML file; only keys
// present in the map replace loaded values.
func LoadWithOverrides(ctx context.Context, location string, overrides map[string]any, opts ...Option) (*Config, error) {
	o := newLocationOptions(opts)

	data, err := read(ctx, location, o)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", location, err)
	}

	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config from %s: %w", location, err)
	}

	if len(overrides) > 0 {
		if err := mapstructure.Decode(overrides, &cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config overrides: %w", err)
		}
	}

	return &cfg, nil
}

func read(ctx context.Context, location string, o *locationOptions) ([]byte, error) {
	if !s3.IsURL(location) {
		// #nosec G304
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return data, nil
	}

	bucket, key, err := s3.ParseURL(location)
	if err != nil {
		return nil, err
	}
	store, err := o.resolveStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.FetchObject(ctx, bucket, key)
}

func (o *locationOptions) resolveStore(ctx context.Context) (ObjectStore, error) {
	if o.store != nil {
		return o.store, nil
	}
	// The bucket region comes from the default AWS chain; the config
	// inside the bucket is what names the cluster's region.
	client, err := s3.NewClient(ctx, "")
	if err != nil {
		return nil, err
	}
	return client, nil
}
