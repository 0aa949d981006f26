package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/claimify/internal/model"
)

// Extractor defines the interface for extracting claims from one document.
// Each document's pipeline run is self-contained, so runs may execute in
// parallel as long as the underlying client is safe for concurrent use.
type Extractor interface {
	Run(ctx context.Context, text, question string) ([]model.Claim, error)
}

// ExtractJob extracts claims from one input file
type ExtractJob struct {
	Path      string
	Question  string
	Extractor Extractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &ExtractResult{
			Path:  j.Path,
			Error: fmt.Errorf("read file: %w", err),
		}
	}

	claims, err := j.Extractor.Run(ctx, string(data), j.Question)
	if err != nil {
		return &ExtractResult{
			Path:  j.Path,
			Error: err,
		}
	}

	return &ExtractResult{
		Path:   j.Path,
		Claims: claims,
	}
}

// ExtractResult represents the result of an extraction job
type ExtractResult struct {
	Path   string
	Claims []model.Claim
	Error  error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts claims from multiple files concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessFiles extracts claims from the given files concurrently.
// Results are returned keyed by path; completion order is not input order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, question string) []*ExtractResult {
	if len(paths) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ExtractJob{
			Path:      path,
			Question:  question,
			Extractor: b.extractor,
		})
	}

	results := pool.Wait()

	extractResults := make([]*ExtractResult, len(results))
	for i, result := range results {
		extractResults[i] = result.(*ExtractResult)
	}

	return extractResults
}
