package segment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/claimify/internal/model"
)

// ErrIndexOutOfRange signals a context window request for an invalid
// sentence index. This is a programming-contract violation, not a
// degraded-input condition, so it propagates to the caller.
var ErrIndexOutOfRange = errors.New("sentence index out of range")

// Context builds the textual context window for the sentence at target:
// up to before preceding and after following sentences, clamped at the
// document boundaries, joined one per line in document order. The number
// of lines equals the number of sentences actually included.
func Context(sentences []model.Sentence, target, before, after int) (string, error) {
	if target < 0 || target >= len(sentences) {
		return "", fmt.Errorf("%w: %d (document has %d sentences)", ErrIndexOutOfRange, target, len(sentences))
	}

	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}

	start := target - before
	if start < 0 {
		start = 0
	}
	end := target + after
	if end > len(sentences)-1 {
		end = len(sentences) - 1
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		lines = append(lines, sentences[i].Text)
	}

	return strings.Join(lines, "\n"), nil
}
