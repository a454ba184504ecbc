package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultPayload is the fixed /evaluate body every benchmark request sends,
// so all N samples measure the same work.
var defaultPayload = map[string]string{
	"prompt": "Test prompt for benchmark.",
	"answer": "Test answer.",
}

// Sampler issues repeated requests to one endpoint and accumulates a Sample.
type Sampler struct {
	client  *http.Client
	url     string
	body    []byte
	limiter *rate.Limiter
	workers int

	// Valid classifies a response as a success. Defaults to 2xx.
	Valid func(*http.Response) bool
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithRate paces issuance at rps requests per second across all workers.
func WithRate(rps float64) Option {
	return func(s *Sampler) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithConcurrency fans the run out over n workers. n <= 1 keeps the default
// sequential issuance.
func WithConcurrency(n int) Option {
	return func(s *Sampler) {
		if n > 1 {
			s.workers = n
		}
	}
}

// WithPayload replaces the default /evaluate benchmark payload.
func WithPayload(payload any) Option {
	return func(s *Sampler) {
		if raw, err := json.Marshal(payload); err == nil {
			s.body = raw
		}
	}
}

// NewSampler builds a Sampler POSTing to url with the given client.
func NewSampler(client *http.Client, url string, opts ...Option) *Sampler {
	raw, _ := json.Marshal(defaultPayload)
	s := &Sampler{
		client:  client,
		url:     url,
		body:    raw,
		workers: 1,
		Valid: func(resp *http.Response) bool {
			return resp.StatusCode >= 200 && resp.StatusCode < 300
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run issues exactly n requests and returns the collected Sample. Individual
// failures are recorded, never returned as errors; the only error cases are
// a non-positive n (configuration error) and a cancelled context, where the
// partial sample collected so far is returned alongside the error.
func (s *Sampler) Run(ctx context.Context, n int) (Sample, error) {
	if n <= 0 {
		return Sample{}, fmt.Errorf("bench: sample size must be positive, got %d", n)
	}

	if s.workers <= 1 {
		return s.runSequential(ctx, n)
	}
	return s.runConcurrent(ctx, n)
}

func (s *Sampler) runSequential(ctx context.Context, n int) (Sample, error) {
	var sample Sample
	for i := 0; i < n; i++ {
		if err := s.wait(ctx); err != nil {
			return sample, err
		}
		lat, ok := s.once(ctx)
		sample.Record(lat, ok)
	}
	return sample, nil
}

// runConcurrent fans n requests out over s.workers goroutines, each owning
// its own Sample, and merges after all complete. No shared mutable counters.
func (s *Sampler) runConcurrent(ctx context.Context, n int) (Sample, error) {
	workers := s.workers
	if workers > n {
		workers = n
	}

	parts := make([]Sample, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		// Distribute the remainder so the counts sum to exactly n.
		quota := n / workers
		if w < n%workers {
			quota++
		}

		wg.Add(1)
		go func(w, quota int) {
			defer wg.Done()
			for i := 0; i < quota; i++ {
				if err := s.wait(ctx); err != nil {
					errs[w] = err
					return
				}
				lat, ok := s.once(ctx)
				parts[w].Record(lat, ok)
			}
		}(w, quota)
	}
	wg.Wait()

	merged := Merge(parts...)
	for _, err := range errs {
		if err != nil {
			return merged, err
		}
	}
	return merged, nil
}

// wait blocks on the rate limiter when pacing is configured.
func (s *Sampler) wait(ctx context.Context) error {
	if s.limiter == nil {
		// Still honor cancellation between unpaced requests.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	return s.limiter.Wait(ctx)
}

// once issues a single request and classifies it. The body is drained so the
// client can reuse the connection.
func (s *Sampler) once(ctx context.Context) (latency float64, ok bool) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(s.body))
	if err != nil {
		return time.Since(start).Seconds(), false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Since(start).Seconds(), false
	}
	// Drain before stopping the clock so latency covers the full response,
	// not just the headers.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return time.Since(start).Seconds(), s.Valid(resp)
}
