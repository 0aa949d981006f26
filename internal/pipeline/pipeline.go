// Package pipeline implements the three-stage claim extraction flow:
// each sentence of the input, read with a sliding window of neighboring
// sentences as context, passes through selection, disambiguation, and
// decomposition, and the surviving claims are aggregated in document
// order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/claimify/internal/llm"
	"github.com/ppiankov/claimify/internal/model"
	"github.com/ppiankov/claimify/internal/prompt"
	"github.com/ppiankov/claimify/internal/segment"
)

// Pipeline orchestrates claim extraction for one document at a time.
// It holds no per-run state, so a single Pipeline may serve concurrent
// Run calls as long as its client does.
type Pipeline struct {
	selection      *SelectionStage
	disambiguation *DisambiguationStage
	decomposition  *DecompositionStage
	before         int
	after          int
	verbose        bool
	log            io.Writer
}

// Options configures a Pipeline
type Options struct {
	// SentencesBefore/SentencesAfter bound the context window around
	// each target sentence
	SentencesBefore int
	SentencesAfter  int

	// Verbose also logs stage rejections, not just failures
	Verbose bool

	// Log receives warnings and verbose output (default os.Stderr)
	Log io.Writer
}

// DefaultOptions returns the default window sizes
func DefaultOptions() Options {
	return Options{
		SentencesBefore: 5,
		SentencesAfter:  5,
	}
}

// New creates a pipeline from a stage client and the three opaque stage
// prompts, which are treated as immutable for the pipeline's lifetime
func New(client llm.Client, prompts prompt.Prompts, opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = os.Stderr
	}

	return &Pipeline{
		selection:      NewSelectionStage(client, prompts.Selection),
		disambiguation: NewDisambiguationStage(client, prompts.Disambiguation),
		decomposition:  NewDecompositionStage(client, prompts.Decomposition),
		before:         opts.SentencesBefore,
		after:          opts.SentencesAfter,
		verbose:        opts.Verbose,
		log:            log,
	}
}

// Run extracts claims from text. An empty question falls back to the
// documented sentinel. Sentences are processed strictly in document
// order; a failure at one sentence costs only that sentence's claims.
// The result is always a well-formed, possibly empty, ordered claim
// list.
func (p *Pipeline) Run(ctx context.Context, text, question string) ([]model.Claim, error) {
	if strings.TrimSpace(question) == "" {
		question = model.DefaultQuestion
	}

	claims := []model.Claim{}

	sentences := segment.Split(text)
	if len(sentences) == 0 {
		return claims, nil
	}

	for _, sentence := range sentences {
		sentenceClaims, err := p.processSentence(ctx, sentences, sentence, question)
		if err != nil {
			if errors.Is(err, segment.ErrIndexOutOfRange) {
				// Contract violation, not a degraded model response
				return nil, err
			}
			fmt.Fprintf(p.log, "Warning: sentence %d contributed no claims: %v\n", sentence.Index, err)
			continue
		}
		claims = append(claims, sentenceClaims...)
	}

	return claims, nil
}

// processSentence runs the three-stage chain for one sentence. A Reject
// or Unparseable verdict at any stage short-circuits the chain.
func (p *Pipeline) processSentence(ctx context.Context, sentences []model.Sentence, sentence model.Sentence, question string) ([]model.Claim, error) {
	contextText, err := segment.Context(sentences, sentence.Index, p.before, p.after)
	if err != nil {
		return nil, err
	}

	selection, err := p.selection.Run(ctx, contextText, sentence.Text, question)
	if err != nil {
		return nil, err
	}
	if selection.Kind != model.VerdictProceed {
		p.logVerdict(sentence.Index, "selection", selection)
		return nil, nil
	}

	disambiguation, err := p.disambiguation.Run(ctx, contextText, sentence.Text, question)
	if err != nil {
		return nil, err
	}
	if disambiguation.Kind != model.VerdictProceed {
		p.logVerdict(sentence.Index, "disambiguation", disambiguation)
		return nil, nil
	}

	decomposition, err := p.decomposition.Run(ctx, contextText, disambiguation.Rewritten)
	if err != nil {
		return nil, err
	}
	if decomposition.Kind != model.VerdictProceed {
		p.logVerdict(sentence.Index, "decomposition", decomposition)
		return nil, nil
	}

	claims := make([]model.Claim, 0, len(decomposition.Claims))
	for _, text := range decomposition.Claims {
		claims = append(claims, model.Claim{
			Text:     text,
			Sentence: sentence.Index,
		})
	}
	return claims, nil
}

func (p *Pipeline) logVerdict(index int, stage string, verdict model.StageVerdict) {
	if verdict.Kind == model.VerdictUnparseable {
		fmt.Fprintf(p.log, "Warning: sentence %d: unparseable %s response\n", index, stage)
		return
	}
	if p.verbose {
		fmt.Fprintf(p.log, "sentence %d: rejected at %s stage: %s\n", index, stage, verdict.Reason)
	}
}
