// Package probe issues the lab's fixed request suites against a Savant
// deployment: the smoke suite (root, health, docs, openapi), the hardening
// suite (adversarial /evaluate payloads), and an optional Prometheus metrics
// check.
//
// Every per-request failure — connection error, timeout, non-200 — is
// absorbed into the suite's report rather than aborting the run; only the
// reports decide pass/fail downstream. Authentication (bearer, API key,
// basic) is handled by the shared authRoundTripper in client.go.
package probe
