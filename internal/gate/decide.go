package gate

import (
	"time"

	"github.com/savantlab/savantlab/internal/bench"
	"github.com/savantlab/savantlab/internal/config"
	"github.com/savantlab/savantlab/internal/probe"
)

// Check outcome labels used in the decision's per-check map.
const (
	CheckPass = "PASS"
	CheckFail = "FAIL"
)

// SmokeSummary is the slice of the smoke report the decision carries.
type SmokeSummary struct {
	OKRate float64 `json:"ok_rate"`
	OK     int     `json:"ok"`
	Total  int     `json:"total"`
}

// Decision is the full release-gate verdict written to gate.json and printed
// for operators. Pass reflects every check, including the smoke ok-rate one
// the pure evaluator does not own.
type Decision struct {
	BaseURL      string            `json:"base_url"`
	Generated    string            `json:"generated"`
	Thresholds   config.Thresholds `json:"thresholds"`
	Measured     bench.Report      `json:"measured"`
	Smoke        SmokeSummary      `json:"smoke"`
	Checks       map[string]string `json:"gate"`
	Violations   []string          `json:"violations"`
	Pass         bool              `json:"pass"`
	FallbackUsed bool              `json:"fallback_used"`
}

// Decide assembles the final verdict from the evaluator result, the
// benchmark report, and the smoke summary. now is passed explicitly so tests
// control the clock.
func Decide(res *Result, measured bench.Report, smoke probe.SmokeReport,
	th config.Thresholds, baseURL string, fallbackUsed bool, now time.Time) Decision {

	checks := map[string]string{
		"p50":        label(res.P50 <= th.P50Max),
		"p95":        label(res.P95 <= th.P95Max),
		"p99":        label(res.P99 <= th.P99Max),
		"error_rate": label(res.ErrorRate <= th.ErrorRateMax),
	}

	smokeOK := smoke.OKRate >= th.SmokeOKRateMin
	checks["smoke_ok_rate"] = label(smokeOK)

	return Decision{
		BaseURL:    baseURL,
		Generated:  now.UTC().Format(time.RFC3339),
		Thresholds: th,
		Measured:   measured,
		Smoke: SmokeSummary{
			OKRate: smoke.OKRate,
			OK:     smoke.OK,
			Total:  smoke.Total,
		},
		Checks:       checks,
		Violations:   res.Violations,
		Pass:         res.Passed && smokeOK,
		FallbackUsed: fallbackUsed,
	}
}

func label(ok bool) string {
	if ok {
		return CheckPass
	}
	return CheckFail
}
