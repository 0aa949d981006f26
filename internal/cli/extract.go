package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/claimify/internal/cache"
	"github.com/ppiankov/claimify/internal/llm"
	"github.com/ppiankov/claimify/internal/model"
	"github.com/ppiankov/claimify/internal/pipeline"
	"github.com/ppiankov/claimify/internal/prompt"
	"github.com/ppiankov/claimify/internal/segment"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inputFile       string
	htmlInput       bool
	question        string
	outJSON         string
	timeout         time.Duration
	noCache         bool
	cacheDir        string
	llmProvider     string
	llmModel        string
	sentencesBefore int
	sentencesAfter  int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract verifiable claims from a text",
	Long: `Extract runs the three-stage claim extraction pipeline over one text.

The text comes from the argument, from --file, or from stdin. Expect
roughly one LLM round trip per sentence per stage, so long documents are
slow; break them into chunks with enough surrounding context.

Example:
  claimify extract "Apple INC did a fine result last quarter of 2024. The company's revenue increased by 15% due to strong sales."
  claimify extract --file article.txt --question "What did Apple report?"
  cat page.html | claimify extract --html --json claims.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Input flags
	extractCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input text from file")
	extractCmd.Flags().BoolVar(&htmlInput, "html", false, "treat input as HTML and extract visible text first")
	extractCmd.Flags().StringVarP(&question, "question", "q", "", "optional guiding question for disambiguation")

	// Output flags
	extractCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (- for stdout)")

	// Pipeline flags
	extractCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall extraction timeout (expect ~10s per sentence)")
	extractCmd.Flags().IntVar(&sentencesBefore, "before", 5, "sentences of context before the target")
	extractCmd.Flags().IntVar(&sentencesAfter, "after", 5, "sentences of context after the target")

	// LLM flags
	extractCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable LLM response cache")
	extractCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist LLM responses to this directory")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

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

	if htmlInput {
		text, err = segment.TextFromHTML(text)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p := pipeline.New(client, prompts, pipeline.Options{
		SentencesBefore: cfg.Pipeline.SentencesBefore,
		SentencesAfter:  cfg.Pipeline.SentencesAfter,
		Verbose:         cfg.Output.Verbose,
	})

	claims, err := p.Run(ctx, text, question)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d claims\n", len(claims))
	}

	return writeClaims(claims)
}

// readInput resolves the input text from argument, file, or stdin
func readInput(args []string) (string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// writeClaims prints claims one per line, or as JSON when requested
func writeClaims(claims []model.Claim) error {
	if outJSON == "" {
		for _, c := range claims {
			fmt.Println(c.Text)
		}
		return nil
	}

	data, err := json.MarshalIndent(model.ClaimTexts(claims), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}

	if outJSON == "-" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(outJSON, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	}
	return nil
}

// buildConfig merges defaults, config file values, and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	// Config file values override defaults
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	cfg.Prompts.SelectionFile = viper.GetString("prompts.selection_file")
	cfg.Prompts.DisambiguationFile = viper.GetString("prompts.disambiguation_file")
	cfg.Prompts.DecompositionFile = viper.GetString("prompts.decomposition_file")

	// Flags override everything
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	cfg.Cache.Enabled = !noCache
	cfg.Pipeline.SentencesBefore = sentencesBefore
	cfg.Pipeline.SentencesAfter = sentencesAfter

	// Resolve credentials; missing configuration is fatal before any run
	switch cfg.LLM.Provider {
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
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// buildClient assembles the stage client with throttling, caching, and
// logging middleware per configuration
func buildClient(cfg *model.Config) (llm.Client, error) {
	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	client = llm.Throttled(client, cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)

	if cfg.Cache.Enabled {
		var c cache.Cache
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		client = llm.Cached(client, c, cfg.LLM.Model, cfg.Cache.MemoryTTL)
	}

	if cfg.Output.Verbose {
		client = llm.Logged(client, os.Stderr)
	}

	return client, nil
}
