// Package report aggregates claim verdicts and renders them as JSON and
// Markdown.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/lemma/internal/model"
)

// Detail values longer than this are truncated in Markdown output
const maxDetailLength = 200

// Build assembles a report from a run's results. Results are sorted by
// claim id so the report is stable regardless of completion order.
func Build(claimsFile string, results []model.ClaimResult) *model.Report {
	sorted := make([]model.ClaimResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	return &model.Report{
		ClaimsFile:  claimsFile,
		GeneratedAt: time.Now().UTC(),
		Statistics:  model.ComputeStatistics(sorted),
		Results:     sorted,
	}
}

// Renderer writes reports to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// jsonEnvelope is the external JSON contract: a metadata header plus the
// raw result list
type jsonEnvelope struct {
	Metadata jsonMetadata        `json:"metadata"`
	Results  []model.ClaimResult `json:"results"`
}

type jsonMetadata struct {
	GeneratedAt time.Time           `json:"generated_at"`
	ClaimsFile  string              `json:"claims_file,omitempty"`
	TotalClaims int                 `json:"total_claims"`
	Statistics  model.RunStatistics `json:"statistics"`
}

// RenderJSON writes the JSON report
func (r *Renderer) RenderJSON(rep *model.Report, path string) error {
	envelope := jsonEnvelope{
		Metadata: jsonMetadata{
			GeneratedAt: rep.GeneratedAt,
			ClaimsFile:  rep.ClaimsFile,
			TotalClaims: len(rep.Results),
			Statistics:  rep.Statistics,
		},
		Results: rep.Results,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ParseJSON reads a JSON report back into results, round-tripping id,
// type, status and details exactly
func ParseJSON(data []byte) ([]model.ClaimResult, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return envelope.Results, nil
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(rep *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# Proof Report\n\n")
	b.WriteString(fmt.Sprintf("*Generated on %s*\n\n", rep.GeneratedAt.Format("2006-01-02 at 15:04:05 MST")))

	writeSummary(&b, rep.Statistics)
	writeByType(&b, rep.Statistics)
	writeDetails(&b, rep.Results)

	if rep.Advisory != nil && rep.Advisory.Enabled {
		b.WriteString("## Advisory (LLM, non-authoritative)\n\n")
		b.WriteString(rep.Advisory.Text)
		b.WriteString("\n\n")
		for _, w := range rep.Advisory.Warnings {
			b.WriteString(fmt.Sprintf("> Warning: %s\n", w))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Sampling-based verdicts are statistical evidence, not proof: ")
		b.WriteString("absence of a counterexample in the sampled trials is all they certify.*\n")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeSummary(b *strings.Builder, stats model.RunStatistics) {
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **Total Claims**: %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("- **Proved**: %d (%.1f%%)\n", stats.Proved, stats.SuccessRate))
	b.WriteString(fmt.Sprintf("- **Rejected**: %d\n", stats.Rejected))
	b.WriteString(fmt.Sprintf("- **Inconclusive**: %d\n\n", stats.Inconclusive))
}

func writeByType(b *strings.Builder, stats model.RunStatistics) {
	if len(stats.ByType) == 0 {
		return
	}
	b.WriteString("## Results by Type\n\n")
	b.WriteString("| Type | Total | Proved | Rejected | Inconclusive |\n")
	b.WriteString("|------|-------|--------|----------|--------------|\n")

	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		c := stats.ByType[t]
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n",
			t, c.Total, c.Proved, c.Rejected, c.Inconclusive))
	}
	b.WriteString("\n")
}

func writeDetails(b *strings.Builder, results []model.ClaimResult) {
	b.WriteString("## Detailed Results\n\n")

	for _, res := range results {
		b.WriteString(fmt.Sprintf("### %s %s — %s — **%s**\n\n",
			statusMarker(res.Status), res.ID, res.Type, strings.ToUpper(string(res.Status))))

		keys := make([]string, 0, len(res.Details))
		for k := range res.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", k, formatDetail(res.Details[k])))
		}
		b.WriteString("\n---\n\n")
	}
}

func statusMarker(s model.Status) string {
	switch s {
	case model.StatusProved:
		return "✓"
	case model.StatusRejected:
		return "✗"
	default:
		return "?"
	}
}

// formatDetail renders a detail value compactly, truncating long values
func formatDetail(v interface{}) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case bool, int, int64, float64:
		s = fmt.Sprintf("%v", t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprintf("%v", v)
		} else {
			s = string(data)
		}
	}
	if len(s) > maxDetailLength {
		s = s[:maxDetailLength] + "…"
	}
	return s
}

// RenderSummary prints the run summary to stdout
func (r *Renderer) RenderSummary(rep *model.Report) {
	stats := rep.Statistics
	fmt.Printf("Claims: %d total — %d proved, %d rejected, %d inconclusive (%.1f%% proved)\n",
		stats.Total, stats.Proved, stats.Rejected, stats.Inconclusive, stats.SuccessRate)

	for _, res := range rep.Results {
		if res.Status != model.StatusProved {
			reason := ""
			if msg, ok := res.Details["error"].(string); ok {
				reason = " — " + msg
			}
			fmt.Printf("  %s %s [%s] %s%s\n",
				statusMarker(res.Status), res.ID, res.Type, res.Status, reason)
		}
	}
}
