package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// detailLimit truncates the smoke+hardening JSON block so one noisy run
// cannot balloon the page.
const detailLimit = 4000

// Page is the template input for index.html.
type Page struct {
	BaseURL    string
	Stamp      string
	Rows       []Entry // newest first
	CompareRaw string  // pretty-printed baseline metrics
	DetailRaw  string  // pretty-printed smoke + hardening, truncated
}

var pageTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Savant Lab Dashboard</title>
<style>
body{font-family:Arial, sans-serif;margin:28px;}
.card{border:1px solid #ddd;border-radius:12px;padding:14px;margin:14px 0;}
table{border-collapse:collapse;width:100%;}
th,td{border:1px solid #ddd;padding:8px;text-align:left;}
.code{font-family:ui-monospace, SFMono-Regular, Menlo, monospace;background:#f6f6f6;padding:2px 6px;border-radius:6px;}
</style></head><body>
<h1>Savant Lab Dashboard</h1>
<div class="card">
  <b>Base URL:</b> <span class="code">{{.BaseURL}}</span><br/>
  <b>Last update:</b> <span class="code">{{.Stamp}}</span>
</div>

<div class="card">
  <h2>Latency history (end-to-end)</h2>
  <table>
    <thead><tr><th>timestamp</th><th>sha</th><th>p95_s</th><th>p99_s</th><th>error_rate</th><th>gate</th></tr></thead>
    <tbody>
{{- range .Rows}}
      <tr><td>{{.Stamp}}</td><td>{{.SHA}}</td><td>{{printf "%.6g" .P95S}}</td><td>{{printf "%.6g" .P99S}}</td><td>{{printf "%.6g" .ErrorRate}}</td><td>{{if .Pass}}PASS{{else}}FAIL{{end}}</td></tr>
{{- end}}
    </tbody>
  </table>
</div>

<div class="card">
  <h2>Latest baseline comparison (NDCG@3 / MRR@3)</h2>
  <pre class="code">{{.CompareRaw}}</pre>
</div>

<div class="card">
  <h2>Smoke + Hardening (latest)</h2>
  <pre class="code">{{.DetailRaw}}</pre>
</div>

</body></html>
`))

// Render writes index.html into dir from the run artifacts and history.
// history is oldest-first as AppendHistory returns it; rows are reversed so
// the latest run tops the table.
func Render(dir string, a *Artifacts, history []Entry) error {
	rows := make([]Entry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		rows = append(rows, history[i])
	}

	page := Page{
		BaseURL:    a.Decision.BaseURL,
		Rows:       rows,
		CompareRaw: prettyJSON(a.Compare.Metrics),
		DetailRaw: truncate(prettyJSON(map[string]any{
			"smoke":     a.Smoke,
			"hardening": a.Hardening,
		}), detailLimit),
	}
	if len(rows) > 0 {
		page.Stamp = rows[0].Stamp
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("dashboard: create index.html: %w", err)
	}
	defer f.Close()

	if err := pageTmpl.Execute(f, page); err != nil {
		return fmt.Errorf("dashboard: render: %w", err)
	}
	return nil
}

func prettyJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(out)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
