package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/lemma/internal/model"
)

// ClaimRunner evaluates a single claim specification
type ClaimRunner interface {
	Run(spec model.ClaimSpec) model.ClaimResult
}

// ClaimJob wraps one claim evaluation for the pool. The configured timeout
// bounds the evaluation externally: strategies themselves never suspend
// mid-flight, so expiry is converted into an inconclusive result here.
type ClaimJob struct {
	Spec    model.ClaimSpec
	Runner  ClaimRunner
	Timeout time.Duration
}

// Execute runs the claim, honoring pool cancellation and the per-claim
// timeout
func (j *ClaimJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	done := make(chan model.ClaimResult, 1)
	go func() {
		done <- j.Runner.Run(j.Spec)
	}()

	select {
	case res := <-done:
		return &ClaimJobResult{Result: res}
	case <-ctx.Done():
		return &ClaimJobResult{
			Result: model.ClaimResult{
				ID:     j.Spec.ID,
				Type:   j.Spec.Type,
				Status: model.StatusInconclusive,
				Details: map[string]interface{}{
					"error":   "evaluation timed out",
					"timeout": true,
				},
			},
			Err: ctx.Err(),
		}
	}
}

// ClaimJobResult is the result of one claim job
type ClaimJobResult struct {
	Result model.ClaimResult
	Err    error
}

// GetError returns the error from the claim job, if any
func (r *ClaimJobResult) GetError() error {
	return r.Err
}

// BatchProcessor evaluates many claims concurrently. Claims are independent
// pure functions of their specification plus a per-claim seeded generator,
// so no ordering constraint exists between them; results are re-sorted by
// claim id so output is stable regardless of completion order.
type BatchProcessor struct {
	runner  ClaimRunner
	workers int
	timeout time.Duration
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner ClaimRunner, workers int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		runner:  runner,
		workers: workers,
		timeout: timeout,
	}
}

// ProcessClaims evaluates all claims and returns results sorted by claim id
func (b *BatchProcessor) ProcessClaims(ctx context.Context, specs []model.ClaimSpec) []model.ClaimResult {
	if len(specs) == 0 {
		return []model.ClaimResult{}
	}

	pool := NewPool(b.workers)
	pool.Start()

	for _, spec := range specs {
		pool.Submit(&ClaimJob{
			Spec:    spec,
			Runner:  b.runner,
			Timeout: b.timeout,
		})
	}

	raw := pool.Wait()

	results := make([]model.ClaimResult, 0, len(raw))
	for _, r := range raw {
		if cr, ok := r.(*ClaimJobResult); ok {
			results = append(results, cr.Result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	return results
}

// ReadPathsFromFile reads claims-file paths from a list file (one per
// line), skipping blanks and # comments and deduplicating
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
