package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/savantlab/savantlab/internal/stats"
)

// apiRankerName labels the hosted ranking in the summary, alongside the
// local baseline names.
const apiRankerName = "savant-api"

// cutoff is the rank depth quality metrics are computed at.
const cutoff = 3

// RankerSummary is one ranker's averaged quality over the evalset. Latency
// fields are only populated for the hosted API ranker.
type RankerSummary struct {
	NDCG3Mean   float64 `json:"ndcg@3_mean"`
	MRR3Mean    float64 `json:"mrr@3_mean"`
	LatencyMean float64 `json:"latency_mean_s,omitempty"`
	LatencyP95  float64 `json:"latency_p95_s,omitempty"`
}

// Report is the baseline comparison written to baseline_compare.json.
type Report struct {
	BaseURL  string                   `json:"base_url"`
	Dataset  string                   `json:"dataset"`
	NQueries int                      `json:"N_queries"`
	Metrics  map[string]RankerSummary `json:"metrics"`
}

// Compare ranks every evalset record with the hosted API and each local
// baseline, and averages NDCG@3 / MRR@3 per ranker. An API failure aborts
// the comparison: quality numbers over a partial evalset are misleading.
func Compare(ctx context.Context, client *Client, records []Record, baselines []Ranker, datasetPath string) (*Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("rerank: no evalset records to compare")
	}

	type acc struct {
		ndcg, mrr, latency []float64
	}
	scores := map[string]*acc{apiRankerName: {}}
	for _, b := range baselines {
		scores[b.Name()] = &acc{}
	}

	for i, rec := range records {
		relevant := rec.RelevantSet()

		ranked, latency, err := client.Rerank(ctx, rec.Query, rec.Candidates)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		api := scores[apiRankerName]
		api.ndcg = append(api.ndcg, NDCGAt(ranked, relevant, cutoff))
		api.mrr = append(api.mrr, MRRAt(ranked, relevant, cutoff))
		api.latency = append(api.latency, latency)

		for _, b := range baselines {
			ranked := b.Rank(rec.Query, rec.Candidates)
			s := scores[b.Name()]
			s.ndcg = append(s.ndcg, NDCGAt(ranked, relevant, cutoff))
			s.mrr = append(s.mrr, MRRAt(ranked, relevant, cutoff))
		}

		slog.Debug("rerank: compared record", "index", i+1, "query", rec.Query)
	}

	rep := &Report{
		BaseURL:  client.baseURL,
		Dataset:  filepath.Base(datasetPath),
		NQueries: len(records),
		Metrics:  make(map[string]RankerSummary, len(scores)),
	}
	for name, s := range scores {
		summary := RankerSummary{
			NDCG3Mean: stats.Mean(s.ndcg),
			MRR3Mean:  stats.Mean(s.mrr),
		}
		if len(s.latency) > 0 {
			summary.LatencyMean = stats.Mean(s.latency)
			summary.LatencyP95 = stats.Percentile(stats.Sorted(s.latency), 95)
		}
		rep.Metrics[name] = summary
	}
	return rep, nil
}
