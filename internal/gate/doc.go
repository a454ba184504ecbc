// Package gate turns a collected latency sample into a release decision.
//
// Evaluate is the pure core: nearest-rank percentiles plus threshold
// comparison, producing a Result with ordered human-readable violations.
// Decide wraps a Result together with the smoke summary into the full
// gate.json decision CI consumes. Neither performs I/O or retries — by the
// time the gate runs, all measurements are already in hand.
package gate
