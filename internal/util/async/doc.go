// Package async provides utilities for concurrent task execution with
// per-task result collection.
//
// The [Collect] function executes multiple operations concurrently and
// returns every task's outcome. It backs the remote command fan-out,
// where a failing host must not stop the rest of the batch.
package async
