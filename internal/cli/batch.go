package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ppiankov/claimify/internal/model"
	"github.com/ppiankov/claimify/internal/pipeline"
	"github.com/ppiankov/claimify/internal/prompt"
	"github.com/ppiankov/claimify/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchWorkers  int
	batchQuestion string
	batchJSON     string
	batchTimeout  time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Extract claims from multiple files concurrently",
	Long: `Batch runs the extraction pipeline over several input files at once.

Each file is a self-contained document; files are processed concurrently
while sentences within a file keep their strict document order.

Example:
  claimify batch notes/*.txt --workers 4 --json claims.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 2, "number of concurrent extractions")
	batchCmd.Flags().StringVarP(&batchQuestion, "question", "q", "", "optional guiding question for all files")
	batchCmd.Flags().StringVar(&batchJSON, "json", "", "output JSON path (claims per file)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 1*time.Hour, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	prompts, err := prompt.Load(cfg.Prompts)
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p := pipeline.New(client, prompts, pipeline.Options{
		SentencesBefore: cfg.Pipeline.SentencesBefore,
		SentencesAfter:  cfg.Pipeline.SentencesAfter,
		Verbose:         cfg.Output.Verbose,
	})

	processor := worker.NewBatchProcessor(p, batchWorkers)
	results := processor.ProcessFiles(ctx, args, batchQuestion)

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	failed := 0
	byFile := make(map[string][]string, len(results))
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}
		byFile[r.Path] = model.ClaimTexts(r.Claims)
		fmt.Fprintf(os.Stderr, "✓ %s: %d claims\n", r.Path, len(r.Claims))
	}

	if batchJSON != "" {
		data, err := json.MarshalIndent(byFile, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal claims: %w", err)
		}
		if err := os.WriteFile(batchJSON, data, 0644); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", batchJSON)
		}
	} else {
		for _, r := range results {
			if r.Error != nil {
				continue
			}
			for _, c := range r.Claims {
				fmt.Println(c.Text)
			}
		}
	}

	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}
