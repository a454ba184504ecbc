package rerank

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is one rerank candidate.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Record is one evalset line: a query, its candidates, and which candidate
// ids count as relevant.
type Record struct {
	Query      string     `json:"query"`
	Candidates []Document `json:"candidates"`
	Relevant   []string   `json:"relevant"`
}

// RelevantSet returns the record's relevant ids as a lookup set.
func (r Record) RelevantSet() map[string]bool {
	set := make(map[string]bool, len(r.Relevant))
	for _, id := range r.Relevant {
		set[id] = true
	}
	return set
}

// LoadEvalset reads a newline-delimited JSON evalset. Blank lines are
// skipped; a malformed line is a configuration error that names the line.
func LoadEvalset(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rerank: open evalset: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("rerank: evalset line %d: %w", lineNo, err)
		}
		if rec.Query == "" {
			return nil, fmt.Errorf("rerank: evalset line %d: query is required", lineNo)
		}
		if len(rec.Candidates) == 0 {
			return nil, fmt.Errorf("rerank: evalset line %d: candidates are required", lineNo)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rerank: read evalset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("rerank: evalset %q is empty", path)
	}
	return records, nil
}
