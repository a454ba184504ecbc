package gate

import (
	"fmt"

	"github.com/savantlab/savantlab/internal/bench"
	"github.com/savantlab/savantlab/internal/config"
	"github.com/savantlab/savantlab/internal/stats"
)

// Result is the evaluator's output for one benchmark sample.
type Result struct {
	P50       float64  `json:"p50_s"`
	P95       float64  `json:"p95_s"`
	P99       float64  `json:"p99_s"`
	ErrorRate float64  `json:"error_rate"`
	Passed    bool     `json:"passed"`
	// Violations lists every exceeded bound in a fixed order:
	// p50, p95, p99, error_rate.
	Violations []string `json:"violations"`
}

// Evaluate reduces a sample to percentiles and an error rate and compares
// them against the configured thresholds. It is pure computation — no
// retries, no I/O.
//
// An empty sample (no requests issued, or none that recorded a latency) is a
// configuration error: percentiles over nothing would be meaningless, so no
// Result is produced.
func Evaluate(sample bench.Sample, th config.Thresholds) (*Result, error) {
	if sample.Total == 0 {
		return nil, fmt.Errorf("gate: empty sample — no requests were issued")
	}
	if len(sample.Latencies) == 0 {
		return nil, fmt.Errorf("gate: sample has no latency measurements")
	}

	sorted := stats.Sorted(sample.Latencies)
	res := &Result{
		P50:       stats.Percentile(sorted, 50),
		P95:       stats.Percentile(sorted, 95),
		P99:       stats.Percentile(sorted, 99),
		ErrorRate: float64(sample.Failures) / float64(sample.Total),
		Passed:    true,
	}

	checkLatency := func(name string, v, bound float64) {
		if v > bound {
			res.Violations = append(res.Violations,
				fmt.Sprintf("%s %.3fs > max %.3fs", name, v, bound))
			res.Passed = false
		}
	}
	checkLatency("p50", res.P50, th.P50Max)
	checkLatency("p95", res.P95, th.P95Max)
	checkLatency("p99", res.P99, th.P99Max)

	if res.ErrorRate > th.ErrorRateMax {
		res.Violations = append(res.Violations,
			fmt.Sprintf("error_rate %.3f > max %.3f", res.ErrorRate, th.ErrorRateMax))
		res.Passed = false
	}
	return res, nil
}
