package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// rerankHandler answers /v1/rerank by reversing the incoming document order,
// with ranks starting at 1.
func rerankHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/rerank" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rerank request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var resp rerankResponse
		n := len(req.Documents)
		for i, d := range req.Documents {
			rank := n - i
			resp.Results = append(resp.Results, rerankResult{ID: d.ID, Rank: &rank})
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func TestClient_Rerank(t *testing.T) {
	srv := httptest.NewServer(rerankHandler(t))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	ranked, latency, err := c.Rerank(context.Background(), "q", []Document{
		{ID: "a", Text: "1"}, {ID: "b", Text: "2"}, {ID: "c", Text: "3"},
	})
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if !reflect.DeepEqual(ranked, []string{"c", "b", "a"}) {
		t.Errorf("ranked: got %v, want [c b a]", ranked)
	}
	if latency <= 0 {
		t.Errorf("latency: got %v, want > 0", latency)
	}
}

func TestClient_Rerank_MissingRankSortsLast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":"x"},{"id":"a","rank":2},{"id":"b","rank":1}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	ranked, _, err := c.Rerank(context.Background(), "q", []Document{
		{ID: "a"}, {ID: "b"}, {ID: "x"},
	})
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if !reflect.DeepEqual(ranked, []string{"b", "a", "x"}) {
		t.Errorf("ranked: got %v, want [b a x] — rankless result must sort last", ranked)
	}
}

func TestClient_Rerank_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	if _, _, err := c.Rerank(context.Background(), "q", []Document{{ID: "a"}}); err == nil {
		t.Fatal("expected error for 502, got nil")
	}
}

func TestCompare_Summary(t *testing.T) {
	srv := httptest.NewServer(rerankHandler(t))
	defer srv.Close()

	records := []Record{
		{
			Query: "quick fox",
			Candidates: []Document{
				{ID: "far", Text: "unrelated words entirely"},
				{ID: "near", Text: "the quick brown fox"},
			},
			Relevant: []string{"near"},
		},
		{
			Query: "two three",
			Candidates: []Document{
				{ID: "2", Text: "four five six"},
				{ID: "1", Text: "one two three"},
			},
			Relevant: []string{"1"},
		},
	}

	c := NewClient(srv.Client(), srv.URL)
	rep, err := Compare(context.Background(), c, records, Baselines(), "data/evalset.jsonl")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if rep.NQueries != 2 {
		t.Errorf("NQueries: got %d, want 2", rep.NQueries)
	}
	if rep.Dataset != "evalset.jsonl" {
		t.Errorf("Dataset: got %q, want evalset.jsonl", rep.Dataset)
	}
	for _, name := range []string{apiRankerName, "tf-cosine", "token-jaccard"} {
		if _, ok := rep.Metrics[name]; !ok {
			t.Errorf("summary missing ranker %q", name)
		}
	}

	// The test server reverses the candidate order, putting the relevant
	// candidate first in both records.
	api := rep.Metrics[apiRankerName]
	if api.NDCG3Mean != 1.0 || api.MRR3Mean != 1.0 {
		t.Errorf("api quality: got ndcg=%v mrr=%v, want 1.0/1.0", api.NDCG3Mean, api.MRR3Mean)
	}
	if api.LatencyMean <= 0 || api.LatencyP95 <= 0 {
		t.Errorf("api latency: got mean=%v p95=%v, want > 0", api.LatencyMean, api.LatencyP95)
	}

	// tf-cosine should also find the relevant candidates; its summary must
	// not carry latency fields.
	tf := rep.Metrics["tf-cosine"]
	if tf.MRR3Mean != 1.0 {
		t.Errorf("tf-cosine mrr: got %v, want 1.0", tf.MRR3Mean)
	}
	if tf.LatencyMean != 0 || tf.LatencyP95 != 0 {
		t.Errorf("baseline latency must be zero: %+v", tf)
	}
}

func TestCompare_APIFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	records := []Record{{Query: "q", Candidates: []Document{{ID: "a"}}}}
	if _, err := Compare(context.Background(), c, records, Baselines(), "x"); err == nil {
		t.Fatal("expected error when the API fails, got nil")
	}
}

func TestCompare_NoRecords(t *testing.T) {
	c := NewClient(http.DefaultClient, "http://localhost:0")
	if _, err := Compare(context.Background(), c, nil, Baselines(), "x"); err == nil {
		t.Fatal("expected error for empty records, got nil")
	}
}
