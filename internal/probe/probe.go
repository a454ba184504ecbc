package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a response body is read. The lab only needs
// enough to classify the payload shape and keep a short preview.
const maxBodyBytes = 1 << 20

// Prober issues the lab's request suites against one base URL.
type Prober struct {
	client  *http.Client
	baseURL string
}

// New returns a Prober for the given base URL using the provided client.
func New(client *http.Client, baseURL string) *Prober {
	return &Prober{client: client, baseURL: baseURL}
}

// SmokeResult is one smoke check's outcome.
type SmokeResult struct {
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	LatencyS float64 `json:"latency_s"`
	BodyType string  `json:"body_type"`
}

// SmokeReport summarises one smoke suite run.
type SmokeReport struct {
	Tests  []SmokeResult `json:"tests"`
	OK     int           `json:"ok"`
	Total  int           `json:"total"`
	OKRate float64       `json:"ok_rate"`
}

// smokeChecks is the fixed suite: reachable root, health endpoint, rendered
// docs, and the OpenAPI document.
var smokeChecks = []string{"/", "/health", "/docs", "/openapi.json"}

// Smoke runs the smoke suite. A check passes when the endpoint returns 200;
// transport failures record status 0 and never abort the suite.
func (p *Prober) Smoke(ctx context.Context) SmokeReport {
	rep := SmokeReport{Total: len(smokeChecks)}
	for _, path := range smokeChecks {
		status, body, dt := p.request(ctx, http.MethodGet, path, nil)
		rep.Tests = append(rep.Tests, SmokeResult{
			Path:     path,
			Status:   status,
			LatencyS: round6(dt),
			BodyType: classifyBody(body),
		})
		if status == http.StatusOK {
			rep.OK++
		} else {
			slog.Warn("probe: smoke check failed", "path", path, "status", status)
		}
	}
	rep.OKRate = float64(rep.OK) / float64(max(1, rep.Total))
	return rep
}

// request performs one HTTP call and returns status, body, and wall-clock
// latency in seconds. Transport errors yield status 0 and the error text as
// the body so reports stay self-describing.
func (p *Prober) request(ctx context.Context, method, path string, payload any) (int, []byte, float64) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, []byte(err.Error()), 0
		}
		reqBody = bytes.NewReader(raw)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return 0, []byte(err.Error()), time.Since(start).Seconds()
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, []byte(err.Error()), time.Since(start).Seconds()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return resp.StatusCode, body, time.Since(start).Seconds()
}

// classifyBody reports the JSON shape of a response body: object, array,
// string, number, bool or null. Anything unparsable is "text".
func classifyBody(body []byte) string {
	var v any
	if err := json.Unmarshal(bytes.TrimSpace(body), &v); err != nil {
		return "text"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return "null"
	}
}

func round6(v float64) float64 {
	return float64(int64(v*1e6+0.5)) / 1e6
}
