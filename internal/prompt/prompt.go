// Package prompt holds the three stage system prompts. The pipeline
// treats them as opaque configuration strings; the compiled-in defaults
// can be replaced per stage via config file paths.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimify/internal/model"
)

// Prompts are the immutable stage system prompts for one pipeline
type Prompts struct {
	Selection      string
	Disambiguation string
	Decomposition  string
}

// Defaults returns the compiled-in stage prompts
func Defaults() Prompts {
	return Prompts{
		Selection:      selectionPrompt,
		Disambiguation: disambiguationPrompt,
		Decomposition:  decompositionPrompt,
	}
}

// Load returns the default prompts with any configured file overrides
// applied. A missing or unreadable override file is a configuration
// error, surfaced before any pipeline run begins.
func Load(cfg model.PromptConfig) (Prompts, error) {
	prompts := Defaults()

	overrides := []struct {
		path string
		dst  *string
	}{
		{cfg.SelectionFile, &prompts.Selection},
		{cfg.DisambiguationFile, &prompts.Disambiguation},
		{cfg.DecompositionFile, &prompts.Decomposition},
	}

	for _, o := range overrides {
		if o.path == "" {
			continue
		}
		data, err := os.ReadFile(o.path)
		if err != nil {
			return Prompts{}, fmt.Errorf("read prompt file: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return Prompts{}, fmt.Errorf("prompt file %s is empty", o.path)
		}
		*o.dst = string(data)
	}

	return prompts, nil
}

const selectionPrompt = `You decide whether a sentence contains a verifiable factual claim.

You will receive an excerpt of a document, one target sentence from that
excerpt, and a question the text may be answering. Read the target sentence
in its context and decide whether it expresses at least one specific,
verifiable proposition about the world. Opinions, speculation, questions,
instructions, greetings, and rhetorical filler do not qualify. A sentence
that mixes opinion with a verifiable component qualifies.

Briefly explain your reasoning, then end your response with exactly one
final line in this form:

Verdict: contains_verifiable_claim

or

Verdict: no_verifiable_claim`

const disambiguationPrompt = `You rewrite a sentence so it can be understood without its context.

You will receive an excerpt of a document, one target sentence from that
excerpt, and a question the text may be answering. Rewrite the target
sentence so that every pronoun, definite reference, and elliptical phrase
is resolved using only information available in the excerpt or the
question. Preserve the factual content exactly. Do not add facts that are
not stated. Do not drop qualifiers that change meaning.

If the sentence has an ambiguity that cannot be safely resolved from the
available context, do not guess.

Briefly explain your reasoning, then end your response with exactly one
final line: either

DecontextualizedSentence: <the rewritten sentence>

or, when the ambiguity cannot be resolved,

Cannot be decontextualized`

const decompositionPrompt = `You split a self-contained sentence into atomic factual claims.

You will receive an excerpt of a document and one decontextualized
sentence. Split the sentence into the maximal set of atomic, independently
verifiable claims. Each claim must stand alone: a reader who has never
seen the original sentence must be able to understand and verify it. Keep
every claim faithful to the sentence; do not merge distinct facts and do
not invent new ones. A sentence may yield a single claim.

Briefly explain your reasoning, then end your response with a line
containing only

Claims:

followed by one claim per line, each prefixed with "- ". If nothing
verifiable remains, instead end with the single line

No verifiable claims`
