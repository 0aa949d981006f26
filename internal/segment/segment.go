package segment

import (
	"strings"
	"unicode"

	"github.com/ppiankov/claimify/internal/model"
)

// abbreviations are tokens whose trailing period does not end a sentence
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "dept": true,
	"no": true, "fig": true, "approx": true, "est": true, "al": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
	"nov": true, "dec": true,
}

// Split segments text into ordered sentences. Line breaks are hard
// boundaries even without sentence-final punctuation, so deliberately
// separated fragments are never merged. Abbreviation periods inside a
// sentence do not split. Deterministic and pure; empty or whitespace-only
// input yields an empty slice.
func Split(text string) []model.Sentence {
	var sentences []model.Sentence

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, s := range splitLine(line) {
			sentences = append(sentences, model.Sentence{
				Text:  s,
				Index: len(sentences),
			})
		}
	}

	return sentences
}

// splitLine splits a single line on sentence terminators
func splitLine(line string) []string {
	var out []string
	var current strings.Builder

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		// A terminator only ends the sentence when followed by whitespace
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		// Don't split after abbreviations or initials
		if runes[i] == '.' && endsWithAbbreviation(current.String()) {
			continue
		}

		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			out = append(out, sentence)
		}
		current.Reset()

		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}

	return out
}

// endsWithAbbreviation reports whether the text ends in an abbreviation
// period rather than a sentence-final one
func endsWithAbbreviation(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}

	last := strings.ToLower(fields[len(fields)-1])
	word := strings.Trim(last, ".")

	// Single-letter initials ("J. Smith") and dotted tokens ("e.g.", "U.S.")
	if len(word) == 1 {
		return true
	}
	if strings.Contains(word, ".") {
		return true
	}

	return abbreviations[word]
}
