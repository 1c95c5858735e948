package model

import "time"

// Status is the tri-state verdict for a claim
type Status string

const (
	StatusProved       Status = "proved"
	StatusRejected     Status = "rejected"
	StatusInconclusive Status = "inconclusive"
)

// ClaimResult is the verdict for one claim plus the strategy's raw evidence.
// Details carries whatever diagnostic fields the strategy produced
// (residuals, sampled trials, symbolic deltas, observed norms).
type ClaimResult struct {
	ID      string                 `json:"id"`
	Type    ClaimType              `json:"type"`
	Status  Status                 `json:"status"`
	Details map[string]interface{} `json:"details"`
}

// RunStatistics aggregates results by status and by type
type RunStatistics struct {
	Total        int                     `json:"total"`
	Proved       int                     `json:"proved"`
	Rejected     int                     `json:"rejected"`
	Inconclusive int                     `json:"inconclusive"`
	SuccessRate  float64                 `json:"success_rate"`
	ByType       map[string]StatusCounts `json:"by_type"`
}

// StatusCounts is a per-type breakdown of verdicts
type StatusCounts struct {
	Total        int `json:"total"`
	Proved       int `json:"proved"`
	Rejected     int `json:"rejected"`
	Inconclusive int `json:"inconclusive"`
}

// Report is the full output of one verification run
type Report struct {
	ClaimsFile  string        `json:"claims_file"`
	GeneratedAt time.Time     `json:"generated_at"`
	Statistics  RunStatistics `json:"statistics"`
	Results     []ClaimResult `json:"results"`

	// Advisory is optional LLM commentary on inconclusive results.
	// It never affects any status.
	Advisory *Advisory `json:"advisory,omitempty"`
}

// Advisory contains optional LLM-generated diagnosis of inconclusive claims
type Advisory struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ComputeStatistics builds run statistics from a result list
func ComputeStatistics(results []ClaimResult) RunStatistics {
	stats := RunStatistics{
		Total:  len(results),
		ByType: make(map[string]StatusCounts),
	}

	for _, r := range results {
		counts := stats.ByType[string(r.Type)]
		counts.Total++

		switch r.Status {
		case StatusProved:
			stats.Proved++
			counts.Proved++
		case StatusRejected:
			stats.Rejected++
			counts.Rejected++
		default:
			stats.Inconclusive++
			counts.Inconclusive++
		}

		stats.ByType[string(r.Type)] = counts
	}

	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Proved) / float64(stats.Total) * 100
	}

	return stats
}
