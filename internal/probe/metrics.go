package probe

import (
	"context"
	"fmt"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// MetricsReport is the outcome of the optional Prometheus metrics check.
type MetricsReport struct {
	Path     string `json:"path"`
	Status   int    `json:"status"`
	OK       bool   `json:"ok"`
	Families int    `json:"families"`
	// Counters holds summed values for a few well-known process and HTTP
	// families, when the target exposes them.
	Counters map[string]float64 `json:"counters,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// counterFamilies are the exposition families summed into the report when
// present. Instrumented FastAPI services typically expose the http_requests
// family; the process_* ones come from the default process collector.
var counterFamilies = []string{
	"http_requests_total",
	"process_cpu_seconds_total",
	"process_open_fds",
	"process_resident_memory_bytes",
}

// Metrics fetches path on the target and validates it parses as Prometheus
// text exposition. Failures are reported, never fatal — a deployment without
// a metrics endpoint is still releasable.
func (p *Prober) Metrics(ctx context.Context, path string) MetricsReport {
	rep := MetricsReport{Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := p.client.Do(req)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	defer resp.Body.Close()
	rep.Status = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		rep.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return rep
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		// The parser may hand back partially-built families alongside the
		// error; keep the count for diagnostics, but the check is about the
		// exposition being well-formed, so any parse error fails it.
		rep.Error = fmt.Sprintf("parse prometheus text: %v", err)
		rep.Families = len(mfs)
		return rep
	}

	rep.OK = true
	rep.Families = len(mfs)
	for _, name := range counterFamilies {
		if mf, ok := mfs[name]; ok {
			if rep.Counters == nil {
				rep.Counters = make(map[string]float64)
			}
			rep.Counters[name] = sumFamily(mf)
		}
	}
	return rep
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
func sumFamily(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}
