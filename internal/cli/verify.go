package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	runTimeout   time.Duration
	claimTimeout time.Duration
	workers      int
	seed         int64
	trials       int
	keepTrials   bool
	noCache      bool
	noFooter     bool
	dryRun       bool
	failRejected bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claims-file>",
	Short: "Verify all claims in a YAML file and generate a report",
	Long: `Verify loads a claims file and runs every claim through its
verification strategy:
- identity:     symbolic equality of two expressions over one step
- induction:    base cases plus a symbolic induction step
- lyapunov:     symbolic then sampled descent of a candidate function
- gate:         sampled consistency of continue/halt predicates
- contraction:  sampled bound on the Jacobian norm of the update map

Each claim yields proved, rejected or inconclusive. Malformed claims
never abort the run; they come back inconclusive with a reason.

Example:
  lemma verify claims.yaml
  lemma verify claims.yaml --json report.json --md report.md
  lemma verify claims.yaml --seed 7 --trials 1000
  lemma verify claims.yaml --dry-run
  lemma verify claims.yaml --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Execution flags
	verifyCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
	verifyCmd.Flags().DurationVar(&claimTimeout, "claim-timeout", 30*time.Second, "per-claim timeout (expired claims are inconclusive)")
	verifyCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent workers")
	verifyCmd.Flags().Int64Var(&seed, "seed", 0, "seed offset for deterministic sampling")
	verifyCmd.Flags().IntVar(&trials, "trials", 0, "override trial count for all sampling strategies (0 = per-claim)")
	verifyCmd.Flags().BoolVar(&keepTrials, "keep-trials", false, "record every sampled trial in the report (large)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force re-verification)")
	verifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate claim structure without evaluating")
	verifyCmd.Flags().BoolVar(&failRejected, "fail-rejected", false, "exit nonzero when any claim is rejected")

	// LLM flags
	verifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM advisory for inconclusive claims")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", file)
		fmt.Fprintf(os.Stderr, "Workers: %d\n", workers)
		fmt.Fprintf(os.Stderr, "Seed: %d\n", seed)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if dryRun {
		invalid, err := p.DryRun(file)
		if err != nil {
			return err
		}
		if invalid > 0 {
			return fmt.Errorf("%d invalid claims", invalid)
		}
		return nil
	}

	rep, err := p.VerifyFile(ctx, file)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if err := p.RenderReport(rep, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if failRejected && rep.Statistics.Rejected > 0 {
		return fmt.Errorf("%d claims rejected", rep.Statistics.Rejected)
	}

	return nil
}

// buildConfig applies flag values on top of the defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Verify.Seed = seed
	cfg.Verify.ClaimTimeout = claimTimeout
	cfg.Verify.TrialsOverride = trials
	cfg.Verify.KeepTrials = keepTrials
	cfg.Concurrency.Workers = workers
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
