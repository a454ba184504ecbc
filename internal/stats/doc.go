// Package stats provides the small set of summary statistics the lab derives
// from latency samples: nearest-rank percentiles plus min/mean/max.
//
// Percentile is deliberately the single implementation shared by the
// benchmark report, the release-gate evaluator, and the baseline-compare
// latency summary, so every consumer agrees on the same value for the same
// sample.
package stats
