// Package retry provides fixed-delay retry logic for transient failures.
//
// The [Do] function retries an operation under a [Policy] carrying the
// delay between attempts and the total time budget, with an explicit
// unbounded variant for callers that want to retry until cancelled. It is
// used for EC2 launch calls and other operations that may fail transiently.
package retry
