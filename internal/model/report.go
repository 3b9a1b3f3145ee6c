// internal/model/report.go
package model

// Outcome is the result of processing one item of a batch (a file or a suggestion category).
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFallback Outcome = "fallback"
)

// ItemResult records what happened to a single batch item.
type ItemResult struct {
	Item    string  `json:"item"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// BatchReport accumulates per-item results so callers can see partial failures.
type BatchReport struct {
	RunID     string       `json:"run_id"`
	Requested int          `json:"requested"`
	Succeeded int          `json:"succeeded"`
	Fallback  int          `json:"fallback"`
	Skipped   int          `json:"skipped"`
	Items     []ItemResult `json:"items"`
}

// NewBatchReport starts a report for a run.
func NewBatchReport(runID string) *BatchReport {
	return &BatchReport{RunID: runID, Items: []ItemResult{}}
}

// Add records an item result and updates the counters.
func (r *BatchReport) Add(item string, outcome Outcome, reason string) {
	r.Requested++
	switch outcome {
	case OutcomeSuccess:
		r.Succeeded++
	case OutcomeFallback:
		r.Fallback++
	case OutcomeSkipped:
		r.Skipped++
	}
	r.Items = append(r.Items, ItemResult{Item: item, Outcome: outcome, Reason: reason})
}

// Merge appends the items of other, in order. Used to combine results gathered concurrently.
func (r *BatchReport) Merge(items []ItemResult) {
	for _, it := range items {
		r.Add(it.Item, it.Outcome, it.Reason)
	}
}
