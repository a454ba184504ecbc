// Package bench collects the latency sample the release gate evaluates: it
// issues exactly N requests against one endpoint and records per-request
// wall-clock latency plus a success/failure classification.
//
// Failures (transport errors, timeouts, non-2xx responses) are part of the
// sample — they never truncate the run, so the error rate is computed over
// the full N. With concurrency above one the run fans out across workers and
// merges per-worker samples afterwards; completion order does not matter
// because percentile extraction sorts first.
package bench
