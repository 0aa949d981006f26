package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimify/internal/llm"
	"github.com/ppiankov/claimify/internal/model"
)

// Response markers the stage prompts instruct the model to emit. The
// parsers accept nothing else: a response matching no marker is
// Unparseable, never coerced to a polarity.
const (
	verdictPrefix       = "verdict:"
	verdictClaim        = "contains_verifiable_claim"
	verdictNoClaim      = "no_verifiable_claim"
	rewritePrefix       = "decontextualizedsentence:"
	cannotRewriteMarker = "cannot be decontextualized"
	claimsMarker        = "claims:"
	noClaimsMarker      = "no verifiable claims"
)

// stagePrompt builds the user content for the selection and
// disambiguation stages
func stagePrompt(contextText, sentence, question string) string {
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nExcerpt:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nSentence:\n")
	b.WriteString(sentence)
	return b.String()
}

// decompositionPrompt builds the user content for the decomposition
// stage; the guiding question played its part during disambiguation
func decompositionPrompt(contextText, sentence string) string {
	var b strings.Builder
	b.WriteString("Excerpt:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nSentence:\n")
	b.WriteString(sentence)
	return b.String()
}

// SelectionStage decides whether a sentence, read in context, expresses
// a verifiable factual claim
type SelectionStage struct {
	client       llm.Client
	systemPrompt string
}

// NewSelectionStage creates a new selection stage
func NewSelectionStage(client llm.Client, systemPrompt string) *SelectionStage {
	return &SelectionStage{client: client, systemPrompt: systemPrompt}
}

// Run issues one request and classifies the response. Proceed means the
// sentence is selected for disambiguation.
func (s *SelectionStage) Run(ctx context.Context, contextText, sentence, question string) (model.StageVerdict, error) {
	response, err := s.client.Request(ctx, s.systemPrompt, stagePrompt(contextText, sentence, question))
	if err != nil {
		return model.StageVerdict{}, fmt.Errorf("selection request: %w", err)
	}
	return parseSelection(response), nil
}

// parseSelection looks for the final Verdict line. When the response
// repeats the marker, the last occurrence wins.
func parseSelection(response string) model.StageVerdict {
	verdict := model.Unparseable(response)
	found := false

	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if !strings.HasPrefix(lower, verdictPrefix) {
			continue
		}
		switch strings.TrimSpace(strings.TrimPrefix(lower, verdictPrefix)) {
		case verdictClaim:
			verdict = model.Proceed()
			found = true
		case verdictNoClaim:
			verdict = model.Reject("no verifiable claim")
			found = true
		}
	}

	if !found {
		return model.Unparseable(response)
	}
	return verdict
}

// DisambiguationStage rewrites a selected sentence into a version free
// of unresolved references, or signals it cannot be done safely
type DisambiguationStage struct {
	client       llm.Client
	systemPrompt string
}

// NewDisambiguationStage creates a new disambiguation stage
func NewDisambiguationStage(client llm.Client, systemPrompt string) *DisambiguationStage {
	return &DisambiguationStage{client: client, systemPrompt: systemPrompt}
}

// Run issues one request and extracts the rewritten sentence
func (s *DisambiguationStage) Run(ctx context.Context, contextText, sentence, question string) (model.StageVerdict, error) {
	response, err := s.client.Request(ctx, s.systemPrompt, stagePrompt(contextText, sentence, question))
	if err != nil {
		return model.StageVerdict{}, fmt.Errorf("disambiguation request: %w", err)
	}
	return parseDisambiguation(response), nil
}

func parseDisambiguation(response string) model.StageVerdict {
	verdict := model.Unparseable(response)
	found := false

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if strings.Contains(lower, cannotRewriteMarker) {
			verdict = model.Reject("cannot be decontextualized")
			found = true
			continue
		}

		if strings.HasPrefix(lower, rewritePrefix) {
			// Slice the original line to preserve the rewrite's casing
			text := strings.TrimSpace(trimmed[len(rewritePrefix):])
			text = strings.Trim(text, `"`)
			if text != "" {
				verdict = model.ProceedWith(text)
				found = true
			}
		}
	}

	if !found {
		return model.Unparseable(response)
	}
	return verdict
}

// DecompositionStage splits a disambiguated sentence into atomic,
// independently verifiable claims
type DecompositionStage struct {
	client       llm.Client
	systemPrompt string
}

// NewDecompositionStage creates a new decomposition stage
func NewDecompositionStage(client llm.Client, systemPrompt string) *DecompositionStage {
	return &DecompositionStage{client: client, systemPrompt: systemPrompt}
}

// Run issues one request and extracts the ordered claim list. A Proceed
// verdict with zero claims is legitimate: decomposition may determine
// nothing extractable remains.
func (s *DecompositionStage) Run(ctx context.Context, contextText, sentence string) (model.StageVerdict, error) {
	response, err := s.client.Request(ctx, s.systemPrompt, decompositionPrompt(contextText, sentence))
	if err != nil {
		return model.StageVerdict{}, fmt.Errorf("decomposition request: %w", err)
	}
	return parseDecomposition(response), nil
}

func parseDecomposition(response string) model.StageVerdict {
	lines := strings.Split(response, "\n")

	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))

		if lower == noClaimsMarker {
			return model.ProceedClaims(nil)
		}

		if lower != claimsMarker {
			continue
		}

		var claims []string
		for _, rest := range lines[i+1:] {
			rest = strings.TrimSpace(rest)
			if rest == "" {
				continue
			}
			if !strings.HasPrefix(rest, "- ") {
				// Trailing commentary ends the list
				break
			}
			claim := strings.Trim(strings.TrimSpace(strings.TrimPrefix(rest, "- ")), `"`)
			if claim != "" {
				claims = append(claims, claim)
			}
		}
		return model.ProceedClaims(claims)
	}

	return model.Unparseable(response)
}
