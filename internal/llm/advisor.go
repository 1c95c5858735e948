package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/worker"
)

// Advisor runs the optional LLM diagnosis step after verification.
// It is strictly advisory: no verdict is ever changed, and a failed or
// unavailable provider degrades to warnings on the report.
type Advisor struct {
	provider Provider
	limiter  *worker.Limiter
	verbose  bool
}

// NewAdvisor creates an advisor for the configured provider. A nil
// provider (LLM disabled) yields a nil advisor, which Annotate on the
// caller side should treat as a no-op.
func NewAdvisor(config Config, verbose bool) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	return &Advisor{
		provider: provider,
		limiter:  worker.NewLimiter(1, 2),
		verbose:  verbose,
	}, nil
}

// Annotate attaches an advisory to the report when it has inconclusive
// results. Errors never propagate: they become warnings on the advisory.
func (a *Advisor) Annotate(ctx context.Context, rep *model.Report) {
	advisory := &model.Advisory{
		Enabled:  true,
		Provider: a.provider.Name(),
	}
	rep.Advisory = advisory

	inconclusive := InconclusiveIDs(rep.Results)
	if len(inconclusive) == 0 {
		advisory.Text = "No inconclusive claims in this run."
		return
	}

	if !a.provider.IsAvailable(ctx) {
		advisory.Warnings = append(advisory.Warnings,
			fmt.Sprintf("provider %s is not available", a.provider.Name()))
		return
	}

	if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
		advisory.Warnings = append(advisory.Warnings,
			fmt.Sprintf("rate limit wait: %v", err))
		return
	}

	// The allowlist is every claim id in the run, not just inconclusive
	// ones: the advisory may contrast an inconclusive claim with one the
	// engine decided.
	allIDs := make([]string, 0, len(rep.Results))
	for _, res := range rep.Results {
		allIDs = append(allIDs, res.ID)
	}

	if a.verbose {
		fmt.Fprintf(os.Stderr, "Requesting advisory for %d inconclusive claims from %s\n",
			len(inconclusive), a.provider.Name())
	}

	resp, err := a.provider.Advise(ctx, AdviseRequest{
		Results:  rep.Results,
		ClaimIDs: allIDs,
	})
	if err != nil {
		advisory.Warnings = append(advisory.Warnings,
			fmt.Sprintf("advisory failed: %v", err))
		return
	}

	advisory.Model = resp.Model
	advisory.Text = resp.Text

	if a.verbose {
		fmt.Fprintf(os.Stderr, "Advisory generated by %s (%d tokens)\n",
			resp.Model, resp.TokensUsed)
	}
}
