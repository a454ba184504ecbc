package rerank

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ranker orders a record's candidates for its query, best first.
// Implementations must be deterministic: equal scores keep candidate order.
type Ranker interface {
	Name() string
	Rank(query string, candidates []Document) []string
}

// Baselines returns the lab's local reference rankers. They are cheap
// lexical stand-ins for heavyweight embedding models: not state of the art,
// but stable targets the hosted ranking must beat or match.
func Baselines() []Ranker {
	return []Ranker{tfCosine{}, tokenJaccard{}}
}

// tokenize lowercases s and splits on any non-letter/non-digit rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termFreq builds a term-frequency vector for tokens.
func termFreq(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// rankByScore orders candidate ids by descending score with stable
// tie-breaking on the original candidate order.
func rankByScore(candidates []Document, score func(Document) float64) []string {
	type scored struct {
		id string
		s  float64
	}
	rows := make([]scored, len(candidates))
	for i, c := range candidates {
		rows[i] = scored{id: c.ID, s: score(c)}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].s > rows[j].s })

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

// tfCosine ranks by cosine similarity between term-frequency vectors.
type tfCosine struct{}

func (tfCosine) Name() string { return "tf-cosine" }

func (tfCosine) Rank(query string, candidates []Document) []string {
	qtf := termFreq(tokenize(query))
	qnorm := vecNorm(qtf)

	return rankByScore(candidates, func(c Document) float64 {
		ctf := termFreq(tokenize(c.Text))
		cnorm := vecNorm(ctf)
		if qnorm == 0 || cnorm == 0 {
			return 0
		}
		var dot float64
		for t, qv := range qtf {
			dot += qv * ctf[t]
		}
		return dot / (qnorm * cnorm)
	})
}

func vecNorm(tf map[string]float64) float64 {
	var sq float64
	for _, v := range tf {
		sq += v * v
	}
	return math.Sqrt(sq)
}

// tokenJaccard ranks by Jaccard similarity of token sets.
type tokenJaccard struct{}

func (tokenJaccard) Name() string { return "token-jaccard" }

func (tokenJaccard) Rank(query string, candidates []Document) []string {
	qset := make(map[string]bool)
	for _, t := range tokenize(query) {
		qset[t] = true
	}

	return rankByScore(candidates, func(c Document) float64 {
		cset := make(map[string]bool)
		for _, t := range tokenize(c.Text) {
			cset[t] = true
		}
		if len(qset) == 0 || len(cset) == 0 {
			return 0
		}
		var inter int
		for t := range qset {
			if cset[t] {
				inter++
			}
		}
		union := len(qset) + len(cset) - inter
		return float64(inter) / float64(union)
	})
}
