// Package s3 reads and writes cluster configuration objects in Amazon S3.
//
// Configuration may live in a bucket instead of on local disk; any place
// the CLI accepts a config path also accepts an s3://bucket/key URL. The
// client resolves credentials through the default AWS chain.
package s3
