// Package config defines the cluster configuration, its defaulting rules
// and its validation.
//
// Configuration is loaded from a YAML file or an s3:// object, merged
// with command-line overrides, filled with static and provider-queried
// defaults, validated once, and treated as immutable afterwards.
package config
