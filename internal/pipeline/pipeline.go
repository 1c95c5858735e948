// Package pipeline wires loading, caching, parallel verification and
// reporting into one entry point for the CLI.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/lemma/internal/cache"
	"github.com/ppiankov/lemma/internal/llm"
	"github.com/ppiankov/lemma/internal/loader"
	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/registry"
	"github.com/ppiankov/lemma/internal/report"
	"github.com/ppiankov/lemma/internal/worker"
)

// Pipeline runs claim files end to end
type Pipeline struct {
	cfg     *model.Config
	runner  *registry.Runner
	store   *cache.ResultStore
	advisor *llm.Advisor
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		runner: registry.New(cfg),
	}

	// Cached verdicts are keyed by claim content and seed only; runs with
	// a trial override or per-trial records would collide with default runs
	cacheable := cfg.Cache.Enabled && cfg.Verify.TrialsOverride == 0 && !cfg.Verify.KeepTrials

	if cacheable {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".lemma", "cache")
		}
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		p.store = cache.NewResultStore(layered, cfg.Verify.Seed)
	}

	advisor, err := llm.NewAdvisor(llm.ConfigFromModel(cfg.LLM), cfg.Output.Verbose)
	if err != nil {
		return nil, fmt.Errorf("configure LLM: %w", err)
	}
	p.advisor = advisor

	return p, nil
}

// VerifyFile loads a claims file, verifies every claim and returns the
// aggregated report. Per-claim failures never surface here: they are
// inconclusive results inside the report. Only a broken claims file or
// configuration errors return an error.
func (p *Pipeline) VerifyFile(ctx context.Context, path string) (*model.Report, error) {
	specs, err := loader.LoadClaims(path)
	if err != nil {
		return nil, err
	}

	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d claims from %s\n", len(specs), path)
	}

	var results []model.ClaimResult
	var pending []model.ClaimSpec

	if p.store != nil {
		for _, spec := range specs {
			if res, ok := p.store.Get(spec); ok {
				results = append(results, res)
				continue
			}
			pending = append(pending, spec)
		}
		if p.cfg.Output.Verbose && len(results) > 0 {
			fmt.Fprintf(os.Stderr, "Cache: %d hits, %d claims to verify\n", len(results), len(pending))
		}
	} else {
		pending = specs
	}

	if len(pending) > 0 {
		processor := worker.NewBatchProcessor(p.runner, p.cfg.Concurrency.Workers, p.cfg.Verify.ClaimTimeout)
		fresh := processor.ProcessClaims(ctx, pending)

		if p.store != nil {
			specByID := make(map[string]model.ClaimSpec, len(pending))
			for _, spec := range pending {
				specByID[spec.ID] = spec
			}
			for _, res := range fresh {
				// Timeouts depend on machine load, not on the claim
				if timedOut, _ := res.Details["timeout"].(bool); timedOut {
					continue
				}
				if err := p.store.Put(specByID[res.ID], res); err != nil && p.cfg.Output.Verbose {
					fmt.Fprintf(os.Stderr, "Cache write failed for %s: %v\n", res.ID, err)
				}
			}
		}

		results = append(results, fresh...)
	}

	rep := report.Build(path, results)

	if p.advisor != nil {
		p.advisor.Annotate(ctx, rep)
	}

	return rep, nil
}

// DryRun validates every claim in the file without evaluating anything.
// It returns the number of invalid claims; structural problems are
// printed to stderr.
func (p *Pipeline) DryRun(path string) (int, error) {
	specs, err := loader.LoadClaims(path)
	if err != nil {
		return 0, err
	}

	invalid := 0
	for _, spec := range specs {
		if err := p.runner.Validate(spec); err != nil {
			invalid++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", spec.ID, err)
			continue
		}
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", spec.ID, spec.Type)
		}
	}

	fmt.Fprintf(os.Stderr, "%d claims checked, %d invalid\n", len(specs), invalid)
	return invalid, nil
}

// RenderReport writes the JSON and optional Markdown outputs and prints
// a summary to stdout
func (p *Pipeline) RenderReport(rep *model.Report, jsonPath, mdPath string) error {
	renderer := report.NewRenderer(p.cfg.Output.IncludeFooter)

	if jsonPath != "" {
		if err := renderer.RenderJSON(rep, jsonPath); err != nil {
			return err
		}
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "JSON report: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(rep, mdPath); err != nil {
			return err
		}
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Markdown report: %s\n", mdPath)
		}
	}

	renderer.RenderSummary(rep)
	return nil
}
