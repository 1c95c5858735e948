package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/lemma/internal/pipeline"
	"github.com/ppiankov/lemma/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Verify multiple claims files and write one report per file",
	Long: `Batch reads a list of claims-file paths (one per line, # comments
allowed) and verifies each file in turn. Claims inside a file run in
parallel; JSON and Markdown reports are written per file into the
output directory.

Example:
  lemma batch suites.txt
  lemma batch suites.txt --workers 8 --output-dir ./reports
  lemma batch suites.txt --seed 7 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./lemma-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared execution flags
	batchCmd.Flags().DurationVar(&claimTimeout, "claim-timeout", 30*time.Second, "per-claim timeout (expired claims are inconclusive)")
	batchCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent workers")
	batchCmd.Flags().Int64Var(&seed, "seed", 0, "seed offset for deterministic sampling")
	batchCmd.Flags().IntVar(&trials, "trials", 0, "override trial count for all sampling strategies (0 = per-claim)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force re-verification)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM advisory for inconclusive claims")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Lemma Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	paths, err := worker.ReadPathsFromFile(listFile)
	if err != nil {
		return fmt.Errorf("read list file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Verifying %d claims files...\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0
	totalRejected := 0

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch timeout: %w", err)
		}

		rep, err := p.VerifyFile(ctx, path)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
			continue
		}

		slug := reportSlug(path)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := p.RenderReport(rep, jsonPath, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", path, err)
			continue
		}

		successCount++
		totalRejected += rep.Statistics.Rejected
		fmt.Fprintf(os.Stderr, "✓ %s (%d proved, %d rejected, %d inconclusive)\n",
			path, rep.Statistics.Proved, rep.Statistics.Rejected, rep.Statistics.Inconclusive)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Rejected:  %d claims\n", totalRejected)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportSlug derives a filesystem-safe report name from a claims file path
func reportSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	base = replacer.Replace(base)

	// Limit length
	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		base = "report"
	}

	return base
}
