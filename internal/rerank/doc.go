// Package rerank scores the hosted rerank endpoint against local lexical
// baselines over a fixed evalset.
//
// Each evalset record carries a query, candidate documents, and the set of
// relevant candidate ids. The hosted ranking comes from POST /v1/rerank; the
// baselines (term-frequency cosine, token Jaccard) run locally and are
// deterministic. Quality is NDCG@3 and MRR@3, averaged over the evalset.
package rerank
