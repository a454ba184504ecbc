package bench

import "github.com/savantlab/savantlab/internal/stats"

// Sample is one benchmark run's raw outcome: per-request latencies in
// seconds (completion order) plus the failure/total counts. A Sample is
// built fresh per run and reduced once into a Report or a gate result.
type Sample struct {
	Latencies []float64
	Failures  int
	Total     int
}

// Record appends one request outcome. Every issued request must be recorded
// exactly once, failed or not, so Total stays exact.
func (s *Sample) Record(latency float64, ok bool) {
	s.Latencies = append(s.Latencies, latency)
	s.Total++
	if !ok {
		s.Failures++
	}
}

// Merge combines per-worker samples into one. Counts are summed exactly;
// latency order is whatever the workers produced, which is fine because
// consumers sort before percentile extraction.
func Merge(parts ...Sample) Sample {
	var out Sample
	for _, p := range parts {
		out.Latencies = append(out.Latencies, p.Latencies...)
		out.Failures += p.Failures
		out.Total += p.Total
	}
	return out
}

// Report is the benchmark summary written to benchmark.json.
type Report struct {
	N         int     `json:"N"`
	Errors    int     `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
	P50S      float64 `json:"p50_s"`
	P95S      float64 `json:"p95_s"`
	P99S      float64 `json:"p99_s"`
	MinS      float64 `json:"min_s"`
	MeanS     float64 `json:"mean_s"`
	MaxS      float64 `json:"max_s"`
}

// Summarize reduces a non-empty sample to its report. Callers are expected
// to have validated the sample via the gate evaluator first; an empty sample
// yields a zero report.
func Summarize(s Sample) Report {
	rep := Report{
		N:      s.Total,
		Errors: s.Failures,
	}
	if s.Total > 0 {
		rep.ErrorRate = float64(s.Failures) / float64(s.Total)
	}
	if len(s.Latencies) == 0 {
		return rep
	}
	sorted := stats.Sorted(s.Latencies)
	rep.P50S = stats.Percentile(sorted, 50)
	rep.P95S = stats.Percentile(sorted, 95)
	rep.P99S = stats.Percentile(sorted, 99)
	rep.MinS = sorted[0]
	rep.MaxS = sorted[len(sorted)-1]
	rep.MeanS = stats.Mean(sorted)
	return rep
}
